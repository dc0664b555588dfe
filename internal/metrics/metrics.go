package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lcid_sync_runs_total",
		Help: "Catalog sync runs by outcome",
	}, []string{"outcome"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lcid_sync_duration_seconds",
		Help:    "Catalog sync duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
	})

	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lcid_catalog_problems",
		Help: "Number of problems in the last persisted catalog",
	})

	statsDegraded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lcid_catalog_stats_degraded",
		Help: "Problems in the last persisted catalog whose stats payload could not be parsed",
	})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lcid_sync_last_success_timestamp_seconds",
		Help: "Unix time of the last successful catalog sync",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lcid_http_requests_total",
		Help: "Read requests by route and status code",
	}, []string{"route", "status"})
)

// ObserveSync records the outcome and duration of one sync run.
func ObserveSync(outcome string, elapsed time.Duration) {
	syncRunsTotal.WithLabelValues(outcome).Inc()
	syncDuration.Observe(elapsed.Seconds())
}

// RecordCatalog records the shape of a catalog that was just persisted.
func RecordCatalog(problems, degraded int, at time.Time) {
	catalogSize.Set(float64(problems))
	statsDegraded.Set(float64(degraded))
	lastSuccess.Set(float64(at.Unix()))
}

func ObserveRequest(route string, status int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

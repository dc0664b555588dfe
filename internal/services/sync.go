package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"LCID/internal/metrics"
	"LCID/internal/models"
	"LCID/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("missing cf_clearance or csrftoken")
	ErrIncompleteFetch    = errors.New("fetched problem count does not match total")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

// SyncResult describes a catalog that was persisted.
type SyncResult struct {
	RunID    string
	Total    int
	Degraded int
	Elapsed  time.Duration
}

// SyncService rebuilds the catalog from upstream and replaces the stored
// snapshot in one write. Nothing is written unless every step succeeds.
type SyncService struct {
	fetcher    ProblemFetcher
	store      repositories.SnapshotStore
	key        string
	creds      Credentials
	probeLimit int
	validate   *validator.Validate
	log        *zap.Logger
	now        func() time.Time
}

func NewSyncService(fetcher ProblemFetcher, store repositories.SnapshotStore, key string,
	creds Credentials, probeLimit int, log *zap.Logger) *SyncService {
	return &SyncService{
		fetcher:    fetcher,
		store:      store,
		key:        key,
		creds:      creds,
		probeLimit: probeLimit,
		validate:   validator.New(),
		log:        log.Named("sync"),
		now:        time.Now,
	}
}

// Run performs one full sync. Errors are logged here and returned so the
// caller can decide whether to exit or wait for the next trigger.
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	start := s.now()

	result, err := s.run(ctx, log)
	elapsed := s.now().Sub(start)
	if err != nil {
		metrics.ObserveSync(metrics.OutcomeFailure, elapsed)
		log.Error("Catalog sync failed, keeping previous snapshot",
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}

	result.RunID = runID
	result.Elapsed = elapsed
	metrics.ObserveSync(metrics.OutcomeSuccess, elapsed)
	metrics.RecordCatalog(result.Total, result.Degraded, s.now())
	log.Info("Catalog sync finished",
		zap.Int("problems", result.Total),
		zap.Int("stats_degraded", result.Degraded),
		zap.Duration("elapsed", elapsed))

	return result, nil
}

func (s *SyncService) run(ctx context.Context, log *zap.Logger) (*SyncResult, error) {
	if !s.creds.Complete() {
		return nil, ErrMissingCredentials
	}

	probe, err := s.fetcher.FetchProblems(ctx, s.creds, s.probeLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("probe fetch: %w", err)
	}
	total := probe.Total
	if total <= 0 {
		return nil, fmt.Errorf("%w: upstream reported %d problems", ErrInvalidResponse, total)
	}
	log.Info("Found problems upstream", zap.Int("total", total))

	page, err := s.fetcher.FetchProblems(ctx, s.creds, total, 0)
	if err != nil {
		return nil, fmt.Errorf("full fetch: %w", err)
	}
	if len(page.Questions) != total {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrIncompleteFetch, total, len(page.Questions))
	}

	catalog, degraded, err := s.buildCatalog(page.Questions, log)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}

	if err := s.store.Put(ctx, s.key, data); err != nil {
		return nil, err
	}

	return &SyncResult{Total: len(catalog), Degraded: degraded}, nil
}

// buildCatalog keys rows by frontend id. A bad row fails the whole catalog;
// a bad stats payload only drops that row's raw counts.
func (s *SyncService) buildCatalog(rows []models.ProblemRow, log *zap.Logger) (models.Catalog, int, error) {
	catalog := make(models.Catalog, len(rows))
	degraded := 0

	for i, row := range rows {
		if err := s.validate.Struct(row); err != nil {
			return nil, 0, fmt.Errorf("%w: row %d: %v", ErrInvalidCatalog, i, err)
		}
		if _, dup := catalog[row.FrontendQuestionID]; dup {
			return nil, 0, fmt.Errorf("%w: duplicate frontend id %s", ErrInvalidCatalog, row.FrontendQuestionID)
		}

		stats, err := ParseStats(row.Stats)
		if err != nil {
			degraded++
			log.Debug("Ignoring unparsable stats payload",
				zap.String("problem_id", row.FrontendQuestionID),
				zap.Error(err))
		}

		catalog[row.FrontendQuestionID] = row.ToQuestion(stats)
	}

	if degraded > 0 {
		log.Warn("Some problems have no submission counts", zap.Int("count", degraded))
	}

	return catalog, degraded, nil
}

// ParseStats extracts the raw accepted and submission counts from a stats
// payload. On error both fields are absent.
func ParseStats(raw string) (models.QuestionStats, error) {
	var stats models.QuestionStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return models.QuestionStats{}, err
	}
	return stats, nil
}

package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"LCID/internal/logger"
	"LCID/internal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Syncer is the job the scheduler runs.
type Syncer interface {
	Run(ctx context.Context) (*services.SyncResult, error)
}

// Scheduler triggers sync runs on a cron schedule. Runs are detached from
// the trigger, at most one run is in flight, and Stop waits for it to settle.
type Scheduler struct {
	cron     *cron.Cron
	syncer   Syncer
	schedule string
	timeout  time.Duration
	log      *zap.Logger

	running atomic.Bool
	tasks   sync.WaitGroup
}

func New(syncer Syncer, schedule string, timeout time.Duration, log *zap.Logger) (*Scheduler, error) {
	log = log.Named("scheduler")
	s := &Scheduler{
		cron:     cron.New(cron.WithLogger(logger.CronLogger(log))),
		syncer:   syncer,
		schedule: schedule,
		timeout:  timeout,
		log:      log,
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.Trigger() }); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins firing on the schedule. It does not block.
func (s *Scheduler) Start() {
	s.log.Info("Starting sync scheduler", zap.String("cron", s.schedule))
	s.cron.Start()
}

// Trigger starts a sync run in the background and returns a channel closed
// when it settles. If a run is already in progress nothing is started and
// ok is false.
func (s *Scheduler) Trigger() (done <-chan struct{}, ok bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Info("Skipping sync, previous run still in progress")
		return nil, false
	}

	ch := make(chan struct{})
	s.tasks.Add(1)
	go func() {
		defer close(ch)
		defer s.tasks.Done()
		defer s.running.Store(false)
		s.runTask()
	}()

	return ch, true
}

func (s *Scheduler) runTask() {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.log.Error("Sync run panicked",
				zap.Any("error", recovered),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Failures are already logged by the syncer; the previous snapshot stays.
	_, _ = s.syncer.Run(ctx)
}

// Stop halts the schedule and waits for an in-flight run to settle, or for
// ctx to end, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronCtx := s.cron.Stop()

	settled := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		s.tasks.Wait()
		close(settled)
	}()

	select {
	case <-settled:
		s.log.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("Sync scheduler stopped before the running sync settled")
		return ctx.Err()
	}
}

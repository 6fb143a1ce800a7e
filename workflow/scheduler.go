package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/admesh-io/admesh/logging"
)

// StateFunc produces a fresh State for each scheduled pipeline run, typically
// by pulling current campaign snapshots from connectors.
type StateFunc func(ctx context.Context) (*State, error)

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	Logger logging.Logger
}

// Scheduler runs pipelines on cron schedules. Each pipeline is registered at
// most once; rescheduling replaces the previous entry.
type Scheduler struct {
	cron    *cron.Cron
	logger  logging.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewScheduler creates a stopped Scheduler; call Start to begin dispatching.
func NewScheduler(optFns ...func(o *SchedulerOptions)) *Scheduler {
	opts := SchedulerOptions{
		Logger: logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  opts.Logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Schedule registers a pipeline under the given cron spec. The stateFn is
// invoked at each tick to build the run's input state.
func (s *Scheduler) Schedule(spec string, p *Pipeline, stateFn StateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stateFn == nil {
		stateFn = func(ctx context.Context) (*State, error) { return NewState(), nil }
	}

	id, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		state, err := stateFn(ctx)
		if err != nil {
			s.logger.Error("pipeline state build failed", "pipeline", p.Name(), "error", err)
			return
		}
		start := time.Now()
		if err := p.Run(ctx, state); err != nil {
			s.logger.Error("scheduled pipeline failed", "pipeline", p.Name(), "duration", time.Since(start), "error", err)
			return
		}
		s.logger.Info("scheduled pipeline completed", "pipeline", p.Name(), "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", p.Name(), err)
	}

	if prev, ok := s.entries[p.Name()]; ok {
		s.cron.Remove(prev)
	}
	s.entries[p.Name()] = id
	return nil
}

// Unschedule removes a pipeline's cron entry. Unknown names are a no-op.
func (s *Scheduler) Unschedule(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
}

// NextRun reports when the named pipeline fires next. Zero when unscheduled.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		return s.cron.Entry(id).Next
	}
	return time.Time{}
}

// Start begins dispatching scheduled pipelines.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts dispatching and returns a context that is done once in-flight
// runs complete.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

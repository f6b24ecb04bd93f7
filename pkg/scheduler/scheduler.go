package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inkpress/pkg/portal"
	"github.com/robfig/cron/v3"
)

type Job func(context.Context) error

// Scheduler runs one named job on a cron expression. Overlapping runs are
// skipped, and a panicking job is logged instead of killing the process.
type Scheduler struct {
	name       string
	expression string
	job        Job
	cron       *cron.Cron
	logger     *slog.Logger
	jobTimeout time.Duration

	mu      sync.Mutex
	started bool
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithJobTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.jobTimeout = timeout
		}
	}
}

func New(name, expression string, job Job, opts ...Option) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler: job cannot be nil")
	}

	if _, err := portal.CronParser.Parse(expression); err != nil {
		return nil, fmt.Errorf("scheduler: invalid cron expression [%s]: %w", expression, err)
	}

	s := &Scheduler{
		name:       name,
		expression: expression,
		job:        job,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cron = cron.New(
		cron.WithParser(portal.CronParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return s, nil
}

// Start registers the job and returns immediately. The scheduler stops when
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler [%s] already started", s.name)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	_, err := s.cron.AddFunc(s.expression, func() {
		if err := s.Run(ctx); err != nil {
			s.logger.Error("scheduled job failed", "job", s.name, "error", err)
		}
	})

	if err != nil {
		return fmt.Errorf("schedule job [%s]: %w", s.name, err)
	}

	s.cron.Start()
	s.started = true

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}

	done := s.cron.Stop()
	s.started = false
	s.mu.Unlock()

	<-done.Done()
}

// Run executes the job once, now.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job [%s] panicked: %v", s.name, r)
		}
	}()

	started := time.Now()
	err = s.job(ctx)

	s.logger.Info("scheduled job finished", "job", s.name, "took", time.Since(started).String(), "ok", err == nil)

	return err
}

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each job once after the startup wait, then on its interval,
// until stopped. A job never overlaps with itself.
type Scheduler struct {
	jobs        []Job
	startupWait time.Duration
	logger      zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(startupWait time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		startupWait: startupWait,
		logger:      logger.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, job := range s.jobs {
		job := job
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, job)
		}()
	}
	s.logger.Info().Int("jobs", len(s.jobs)).Dur("startup_wait", s.startupWait).Msg("scheduler started")
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.logger.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	wait := time.NewTimer(s.startupWait)
	defer wait.Stop()
	select {
	case <-ctx.Done():
		return
	case <-wait.C:
	}

	s.runOnce(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	logger := s.logger.With().Str("job", job.Name).Logger()
	logger.Info().Msg("job started")

	if err := job.Run(ctx); err != nil {
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}
	logger.Info().Dur("duration", time.Since(start)).Msg("job completed")
}

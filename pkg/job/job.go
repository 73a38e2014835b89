package job

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

// Service runs registered jobs on their own ticker until the start context is done.
// Each run is bounded by the job interval.
type Service struct {
	jobs []job
	wg   *sync.WaitGroup
}

func NewService() *Service {
	return &Service{
		wg: &sync.WaitGroup{},
	}
}

func (s *Service) RegisterJob(name string, interval time.Duration, fn func(ctx context.Context) error) *Service {
	return s.TryRegisterJob(true, name, interval, fn)
}

func (s *Service) TryRegisterJob(isEnabled bool, name string, interval time.Duration, fn func(ctx context.Context) error) *Service {
	if !isEnabled || interval <= 0 {
		return s
	}

	s.jobs = append(s.jobs, job{
		name:     name,
		interval: interval,
		fn:       fn,
	})

	return s
}

func (s *Service) Start(ctx context.Context) {
	for _, v := range s.jobs {
		s.wg.Add(1)

		go s.startJob(ctx, v)
	}
}

func (s *Service) startJob(ctx context.Context, j job) {
	defer s.wg.Done()

	l := slog.Default().With("job", j.name)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		started := time.Now()

		err := s.run(ctx, j)
		if err != nil {
			l.ErrorContext(ctx, "job failed", "error", err, "duration", time.Since(started))
		} else {
			l.DebugContext(ctx, "job done", "duration", time.Since(started))
		}

		select {
		case <-ctx.Done():
			l.DebugContext(ctx, "context done")
			return

		case <-ticker.C:
		}
	}
}

func (s *Service) run(ctx context.Context, j job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, j.interval)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "job panic", "job", j.name, "stack", string(debug.Stack()))
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return j.fn(ctx)
}

func (s *Service) Stop() {
	s.wg.Wait()
}

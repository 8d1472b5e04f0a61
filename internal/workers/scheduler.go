package workers

import (
	"context"
	"sync"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/metrics"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// DefaultShutdownTimeout bounds how long Stop waits for running iterations
const DefaultShutdownTimeout = 30 * time.Second

// Scheduler runs each enabled worker in its own goroutine: once on start,
// then every interval
type Scheduler struct {
	workers         []Worker
	shutdownTimeout time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	log     *logger.Logger
}

// NewScheduler creates a scheduler. A non-positive timeout means
// DefaultShutdownTimeout.
func NewScheduler(shutdownTimeout time.Duration) *Scheduler {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Scheduler{
		shutdownTimeout: shutdownTimeout,
		log:             logger.Get().With("component", "scheduler"),
	}
}

// RegisterWorker adds a worker. Registration after Start is ignored.
func (s *Scheduler) RegisterWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warnw("Cannot register worker after scheduler has started", "worker", w.Name())
		return
	}

	s.workers = append(s.workers, w)
	s.log.Infow("Worker registered", "worker", w.Name(), "interval", w.Interval())
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	running := 0
	for _, w := range s.workers {
		if !w.Enabled() {
			s.log.Infow("Skipping disabled worker", "worker", w.Name())
			continue
		}
		running++
		s.wg.Add(1)
		go s.runWorker(w)
	}

	s.log.Infow("Worker scheduler started", "workers", running)
	return nil
}

// Stop cancels all workers and waits up to the shutdown timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		s.log.Info("All workers stopped gracefully")
	case <-time.After(s.shutdownTimeout):
		err = errors.Wrapf(errors.ErrTimeout, "worker shutdown after %s", s.shutdownTimeout)
		s.log.Warnw("Worker shutdown timed out", "timeout", s.shutdownTimeout)
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return err
}

func (s *Scheduler) runWorker(w Worker) {
	defer s.wg.Done()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	s.execute(w)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Debugw("Worker stopping", "worker", w.Name())
			return
		case <-ticker.C:
			s.execute(w)
		}
	}
}

// execute runs one iteration, turning a panic into an error
func (s *Scheduler) execute(w Worker) {
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("worker panicked: %v", r)
			}
		}()
		return w.Run(s.ctx)
	}()
	duration := time.Since(start)

	metrics.RecordWorkerExecution(w.Name(), duration, err)
	if rec, ok := w.(healthRecorder); ok {
		if err != nil {
			rec.RecordError(err, duration)
		} else {
			rec.RecordRun(duration)
		}
	}

	if err != nil {
		s.log.Errorw("Worker execution failed", "worker", w.Name(), "error", err, "duration", duration)
		return
	}
	s.log.Debugw("Worker execution completed", "worker", w.Name(), "duration", duration)
}

// GetWorkers returns the registered workers in registration order
func (s *Scheduler) GetWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Worker, len(s.workers))
	copy(out, s.workers)
	return out
}

// Health reports the run history of every worker that keeps one
func (s *Scheduler) Health() map[string]Health {
	out := map[string]Health{}
	for _, w := range s.GetWorkers() {
		if rec, ok := w.(healthRecorder); ok {
			out[w.Name()] = rec.Health()
		}
	}
	return out
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

package scheduler

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Task is a unit of asynchronous work handed off by the dispatcher
type Task func(ctx context.Context)

// Scheduler runs tasks on a fixed pool of workers behind a buffered queue.
// Submit acknowledges enqueue only; callers never wait for execution.
type Scheduler struct {
	mu      sync.Mutex
	closed  bool
	queue   chan Task
	logger  *logrus.Logger
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a scheduler with the given worker count and queue capacity
func New(workers, queueSize int, logger *logrus.Logger) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		queue:   make(chan Task, queueSize),
		logger:  logger,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	go func() {
		s.wg.Wait()
		close(s.stopped)
	}()

	return s
}

// Submit enqueues a task without blocking. Returns false when the queue is
// full or the scheduler is shut down; a dropped task is the caller's signal
// that scheduling failed, never an error on the request path.
func (s *Scheduler) Submit(task Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn("Scheduler is shut down, dropping task")
		return false
	}

	select {
	case s.queue <- task:
		return true
	default:
		s.logger.Warn("Scheduler queue full, dropping task")
		return false
	}
}

// Shutdown stops accepting work, cancels running tasks and waits for workers
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.cancel()

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	for task := range s.queue {
		func() {
			defer func() {
				if p := recover(); p != nil {
					s.logger.WithFields(logrus.Fields{
						"worker": id,
						"panic":  p,
					}).Error("Scheduled task panicked")
				}
			}()
			task(ctx)
		}()
	}
}

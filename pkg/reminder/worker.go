package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/medflowhq/apptkit/pkg/appointment"
	"github.com/medflowhq/apptkit/pkg/logger"
)

// Handler delivers the reminder built from a due appointment record. A
// non-nil error marks the task failed; there is no second attempt.
type Handler func(ctx context.Context, rec appointment.Record) error

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithPollInterval sets how often the worker checks for due tasks.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithMaxConcurrent sets how many reminders may be in flight at once.
func WithMaxConcurrent(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.maxConcurrent = n
		}
	}
}

// WithSendTimeout bounds a single delivery attempt.
func WithSendTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.sendTimeout = d
		}
	}
}

// WithWorkerLogger sets the logger for the worker.
func WithWorkerLogger(log *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}

// Worker polls storage for due reminder tasks and hands each one to the
// handler exactly once. Sent or failed, the task never returns to pending.
type Worker struct {
	store   Storage
	handler Handler
	sem     chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopMu  sync.Mutex

	pollInterval  time.Duration
	sendTimeout   time.Duration
	maxConcurrent int
	log           *slog.Logger
	now           func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// NewWorker creates a worker that claims due tasks from store and delivers
// them through handler.
func NewWorker(store Storage, handler Handler, opts ...WorkerOption) (*Worker, error) {
	if store == nil {
		return nil, ErrStorageNil
	}
	if handler == nil {
		return nil, ErrHandlerNil
	}

	w := &Worker{
		store:         store,
		handler:       handler,
		pollInterval:  30 * time.Second,
		sendTimeout:   time.Minute,
		maxConcurrent: 4,
		log:           slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.sem = make(chan struct{}, w.maxConcurrent)

	return w, nil
}

// Start begins polling in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return fmt.Errorf("reminder worker already started")
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.stopping.Store(false)

	go w.run()

	w.log.Info("reminder worker started",
		slog.Duration("poll_interval", w.pollInterval),
		slog.Int("max_concurrent", cap(w.sem)))

	return nil
}

// Stop cancels polling and waits for in-flight deliveries to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return fmt.Errorf("reminder worker not started")
	}

	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()

	w.log.Info("reminder worker stopped")
	return nil
}

// Run starts the worker and returns a function suitable for errgroup: it
// blocks until ctx is cancelled, then stops gracefully.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return w.Stop()
	}
}

func (w *Worker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			select {
			case w.sem <- struct{}{}:
				// The stopMu handshake keeps Stop from observing an empty
				// WaitGroup between our Add and the goroutine launch.
				w.stopMu.Lock()
				if w.stopping.Load() {
					w.stopMu.Unlock()
					<-w.sem
					return
				}
				w.wg.Add(1)
				w.stopMu.Unlock()

				go func() {
					defer w.wg.Done()
					defer func() { <-w.sem }()

					if err := w.claimAndDeliver(); err != nil {
						w.log.Error("failed to process reminder task",
							logger.Error(err))
					}
				}()
			default:
				w.log.Debug("all reminder slots busy, skipping tick")
			}
		}
	}
}

// claimAndDeliver claims the next due task and attempts delivery once.
func (w *Worker) claimAndDeliver() error {
	task, err := w.store.ClaimDue(w.ctx, w.now())
	if err != nil {
		if errors.Is(err, ErrNoTaskToClaim) {
			return nil
		}
		return fmt.Errorf("failed to claim due task: %w", err)
	}

	w.log.Debug("claimed reminder task",
		logger.TaskID(task.ID),
		logger.AppointmentID(task.AppointmentID))

	// The attempt runs on its own context, detached from the poll loop, so
	// graceful shutdown lets an in-flight reminder finish and be recorded.
	ctx, cancel := context.WithTimeout(context.Background(), w.sendTimeout)
	defer cancel()

	var rec appointment.Record
	if err := json.Unmarshal(task.Payload, &rec); err != nil {
		return w.fail(ctx, task, fmt.Errorf("failed to decode task payload: %w", err), 0)
	}

	return w.deliver(ctx, task, rec)
}

func (w *Worker) deliver(ctx context.Context, task *Task, rec appointment.Record) (retErr error) {
	start := w.now()

	defer func() {
		if r := recover(); r != nil {
			w.log.Error("reminder handler panicked",
				logger.TaskID(task.ID),
				logger.AppointmentID(task.AppointmentID),
				slog.Any("panic", r))
			retErr = w.fail(ctx, task, fmt.Errorf("panic in reminder handler: %v", r), time.Since(start))
		}
	}()

	if err := w.handler(ctx, rec); err != nil {
		return w.fail(ctx, task, err, time.Since(start))
	}

	if err := w.store.CompleteTask(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to mark task %s as sent: %w", task.ID, err)
	}

	w.log.Info("reminder sent",
		logger.TaskID(task.ID),
		logger.AppointmentID(task.AppointmentID),
		logger.Duration(time.Since(start)))

	return nil
}

// fail records the failed attempt. Reminders are not retried: a reminder
// delivered after the visit helps nobody.
func (w *Worker) fail(ctx context.Context, task *Task, execErr error, duration time.Duration) error {
	w.log.Error("reminder delivery failed",
		logger.TaskID(task.ID),
		logger.AppointmentID(task.AppointmentID),
		logger.Duration(duration),
		logger.Error(execErr))

	if err := w.store.FailTask(ctx, task.ID, execErr.Error()); err != nil {
		return fmt.Errorf("failed to mark task %s as failed: %w", task.ID, err)
	}
	return nil
}

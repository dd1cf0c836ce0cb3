package worker

import (
	"context"
	"log/slog"
	"time"

	"vehicle-insurance-service/internal/services"
)

// LifecycleWorker runs the policy lifecycle sweep on a fixed interval. The
// sweep is idempotent, so overlapping with the lazy on-read refresh is safe.
type LifecycleWorker struct {
	lifecycle *services.LifecycleService
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewLifecycleWorker(lifecycle *services.LifecycleService, interval time.Duration) *LifecycleWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &LifecycleWorker{
		lifecycle: lifecycle,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the worker loop. One sweep runs immediately so a restart
// never leaves overdue policies unprocessed until the first tick.
func (w *LifecycleWorker) Start() {
	go w.run()
}

func (w *LifecycleWorker) run() {
	defer close(w.done)

	slog.Info("Lifecycle worker started", "interval", w.interval)

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stop:
			slog.Info("Lifecycle worker stopping")
			return
		}
	}
}

func (w *LifecycleWorker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.lifecycle.RunLifecycleUpdate(ctx); err != nil {
		slog.Error("Scheduled lifecycle sweep failed", "error", err)
	}
}

// Stop signals the worker and waits for the current sweep to finish.
func (w *LifecycleWorker) Stop() {
	close(w.stop)
	<-w.done
}

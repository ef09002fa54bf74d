package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/service/game"
)

type Worker struct {
	SessionManager *game.SessionManager
	Interval       time.Duration
	IdleTimeout    time.Duration
	logger         *zap.Logger
}

func NewWorker(sm *game.SessionManager, interval, idle time.Duration, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		SessionManager: sm,
		Interval:       interval,
		IdleTimeout:    idle,
		logger:         logger.Named("cleanup"),
	}
}

// Run sweeps idle sessions once immediately and then every Interval until
// ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("background worker started",
		zap.Duration("interval", w.Interval),
		zap.Duration("idle_timeout", w.IdleTimeout),
	)
	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() {
	removed := w.SessionManager.CleanupIdleSessions(w.IdleTimeout)
	w.logger.Debug("cleanup finished",
		zap.Int("removed", removed),
		zap.Int("active", w.SessionManager.Count()),
	)
}

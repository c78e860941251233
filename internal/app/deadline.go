package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTick is how often a DeadlineWatcher polls for overdue attempts.
const DefaultTick = time.Second

// DeadlineWatcher periodically force-completes attempts whose quiz time ran out.
type DeadlineWatcher struct {
	workspace *Workspace
	interval  time.Duration
}

func NewDeadlineWatcher(workspace *Workspace, interval time.Duration) *DeadlineWatcher {
	if interval <= 0 {
		interval = DefaultTick
	}
	return &DeadlineWatcher{workspace: workspace, interval: interval}
}

// Run polls until ctx is done and always returns ctx.Err().
func (w *DeadlineWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one poll and returns the number of attempts it expired.
func (w *DeadlineWatcher) Tick(ctx context.Context) int {
	expired := w.workspace.Quizzes.ExpireOverdue(ctx)
	for _, attempt := range expired {
		log.Info().
			Str("clientId", w.workspace.ID()).
			Str("attemptId", attempt.ID).
			Msg("attempt expired at deadline")
		w.workspace.NotifyExpired(attempt)
	}
	return len(expired)
}

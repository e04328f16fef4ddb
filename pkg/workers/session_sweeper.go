package workers

import (
	"context"
	"log/slog"
	"time"
)

type SessionSweeper interface {
	Sweep() int
}

type sessionSweeper struct {
	sessions SessionSweeper
	interval time.Duration
}

func NewSessionSweeper(sessions SessionSweeper, interval time.Duration) *sessionSweeper {
	return &sessionSweeper{sessions: sessions, interval: interval}
}

func (s *sessionSweeper) Name() string { return "session_sweeper_worker" }

// Start drops idle sessions once per interval.
func (s *sessionSweeper) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", s.Name(), "interval", s.interval)
	defer slog.Info("Worker stopped", "name", s.Name())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				slog.Debug("Idle sessions removed", "count", n)
			}
		}
	}
}

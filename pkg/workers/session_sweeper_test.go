package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
	swept chan struct{}
}

func (c *countingSweeper) Sweep() int {
	if c.calls.Add(1) == 2 {
		close(c.swept)
	}
	return 1
}

func TestSessionSweeperSweepsEveryInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := &countingSweeper{swept: make(chan struct{})}
	w := NewSessionSweeper(sessions, time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case <-sessions.swept:
	case <-time.After(time.Second):
		t.Fatalf("sweeps = %d, want at least 2", sessions.calls.Load())
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestSessionSweeperStopsBeforeFirstTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sessions := &countingSweeper{swept: make(chan struct{})}
	if err := NewSessionSweeper(sessions, time.Hour).Start(ctx); err != nil {
		t.Errorf("Start() error = %v, want nil", err)
	}
	if n := sessions.calls.Load(); n != 0 {
		t.Errorf("sweeps = %d, want 0", n)
	}
}

package sweeper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beatstream/accounts/internal/logging"
)

type countingPurger struct {
	calls atomic.Int64
	err   error
}

func (p *countingPurger) PurgeExpired(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	return 1, p.err
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRun_SweepsUntilCancelled(t *testing.T) {
	p := &countingPurger{}
	s := New(5*time.Millisecond, testLogger(), p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancellation")
	}
}

func TestRun_KeepsGoingAfterPurgeError(t *testing.T) {
	failing := &countingPurger{err: errors.New("db down")}
	healthy := &countingPurger{}
	s := New(5*time.Millisecond, testLogger(), failing, healthy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	deadline := time.After(2 * time.Second)
	for healthy.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("healthy purger starved by failing one")
		case <-time.After(time.Millisecond):
		}
	}
}

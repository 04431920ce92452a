package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_RunsImmediatelyAndRepeats(t *testing.T) {
	var n atomic.Int32
	p := New(10*time.Millisecond, func(context.Context) { n.Add(1) })
	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 3 runs, got %d", n.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPoller_FirstRunBeforeInterval(t *testing.T) {
	ran := make(chan struct{}, 1)
	p := New(time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	p.Start(context.Background())
	defer p.Stop()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatalf("fn was not called on start")
	}
}

func TestPoller_StopHaltsCalls(t *testing.T) {
	var n atomic.Int32
	p := New(5*time.Millisecond, func(context.Context) { n.Add(1) })
	p.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	p.Stop()
	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	if n.Load() != after {
		t.Fatalf("fn called after Stop: %d -> %d", after, n.Load())
	}
	// повторный Stop безопасен
	p.Stop()
}

func TestPoller_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(5*time.Millisecond, func(context.Context) {})
	p.Start(ctx)
	done := p.Done()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop did not exit on ctx cancel")
	}
	p.Stop()
}

func TestPoller_RestartAfterStop(t *testing.T) {
	var n atomic.Int32
	p := New(time.Hour, func(context.Context) { n.Add(1) })
	p.Start(context.Background())
	p.Start(context.Background())
	p.Stop()
	p.Start(context.Background())
	p.Stop()
	if got := n.Load(); got != 2 {
		t.Fatalf("expected one immediate run per Start, got %d", got)
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	if p := New(0, func(context.Context) {}); p.interval != DefaultInterval {
		t.Fatalf("interval = %v", p.interval)
	}
}

func TestPoller_RestartAfterParentCancel(t *testing.T) {
	var n atomic.Int32
	p := New(time.Hour, func(context.Context) { n.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatalf("loop did not exit after ctx cancel")
	}

	p.Start(context.Background())
	defer p.Stop()
	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("calls after restart = %d, want 2", n.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

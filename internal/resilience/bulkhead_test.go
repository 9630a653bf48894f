package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkheadLimitsConcurrency(t *testing.T) {
	const limit = 3
	const workers = 10
	b := NewBulkhead(limit)

	var running atomic.Int32
	var maxSeen atomic.Int32
	done := make(chan struct{}, workers)

	for range workers {
		go func() {
			defer func() { done <- struct{}{} }()
			err := b.Run(context.Background(), func(context.Context) error {
				cur := running.Add(1)
				for {
					old := maxSeen.Load()
					if cur <= old || maxSeen.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	for range workers {
		<-done
	}

	if m := maxSeen.Load(); m > limit {
		t.Errorf("max concurrent = %d, want <= %d", m, limit)
	}
}

func TestBulkheadContextCancelled(t *testing.T) {
	b := NewBulkhead(1)

	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = b.Run(context.Background(), func(context.Context) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	called := false
	err := b.Run(ctx, func(context.Context) error {
		called = true
		return nil
	})
	close(hold)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if called {
		t.Fatal("fn must not run without a slot")
	}
}

func TestBulkheadNilRunsDirectly(t *testing.T) {
	var b *Bulkhead
	want := errors.New("boom")
	if err := b.Run(context.Background(), func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestNewBulkheadClampsLimit(t *testing.T) {
	b := NewBulkhead(0)
	if err := b.Run(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

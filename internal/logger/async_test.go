package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// slowHandler counts records, optionally sleeping on each one.
type slowHandler struct {
	mu    sync.Mutex
	n     int
	delay time.Duration
}

func (h *slowHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *slowHandler) Handle(context.Context, slog.Record) error { //nolint:gocritic // slog.Handler interface requires value receiver
	time.Sleep(h.delay)
	h.mu.Lock()
	h.n++
	h.mu.Unlock()
	return nil
}

func (h *slowHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *slowHandler) WithGroup(string) slog.Handler      { return h }

func (h *slowHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.n
}

func record(msg string) slog.Record {
	return slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
}

func TestAsyncHandler_ParallelWritersAllDelivered(t *testing.T) {
	const writers, each = 50, 40

	inner := &slowHandler{}
	ah := NewAsyncHandler(inner, writers*each, 4)

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				_ = ah.Handle(context.Background(), record("name checked"))
			}
		}()
	}
	wg.Wait()
	ah.Close()

	if got := inner.count(); got != writers*each {
		t.Fatalf("delivered %d records, want %d", got, writers*each)
	}
	if ah.DroppedCount() != 0 {
		t.Fatalf("dropped %d records with a large enough buffer", ah.DroppedCount())
	}
}

func TestAsyncHandler_FullBufferDrops(t *testing.T) {
	inner := &slowHandler{delay: 5 * time.Millisecond}
	ah := NewAsyncHandler(inner, 1, 1)

	const sent = 40
	for range sent {
		_ = ah.Handle(context.Background(), record("flood"))
	}
	ah.Close()

	dropped := ah.DroppedCount()
	if dropped == 0 {
		t.Fatal("expected drops with a one-slot buffer")
	}
	if got := int64(inner.count()) + dropped; got != sent {
		t.Fatalf("delivered+dropped = %d, want %d", got, sent)
	}
}

func TestAsyncHandler_DerivedHandlersShareQueue(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	w := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	})

	ah := NewAsyncHandler(slog.NewJSONHandler(w, nil), 16, 1)
	log := slog.New(ah).With("stage", "registry")
	log.Info("owner lookup")
	ah.Close()

	mu.Lock()
	line := strings.TrimSpace(buf.String())
	mu.Unlock()

	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	if got["stage"] != "registry" || got["msg"] != "owner lookup" {
		t.Fatalf("unexpected record %v", got)
	}
}

func TestAsyncHandler_CloseTwice(t *testing.T) {
	ah := NewAsyncHandler(&slowHandler{}, 4, 1)
	_ = ah.Handle(context.Background(), record("once"))
	ah.Close()
	ah.Close()
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

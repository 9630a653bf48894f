package memkv

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, found, err := s.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "contract_0xabc", []byte(`{"name":"Cats"}`), 0); err != nil {
		t.Fatal(err)
	}
	val, found, err := s.Get(ctx, "contract_0xabc")
	if err != nil || !found {
		t.Fatalf("expected hit, got found=%v err=%v", found, err)
	}
	if string(val) != `{"name":"Cats"}` {
		t.Errorf("unexpected value %s", val)
	}

	if err := s.Delete(ctx, "contract_0xabc"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.Get(ctx, "contract_0xabc"); found {
		t.Error("expected miss after delete")
	}
	if err := s.Delete(ctx, "contract_0xabc"); err != nil {
		t.Errorf("deleting a missing key should not error, got %v", err)
	}
}

func TestStoreTTL(t *testing.T) {
	now := time.Now()
	s := New()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Set(ctx, "short", []byte("x"), time.Second)
	_ = s.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Second)

	if _, found, _ := s.Get(ctx, "short"); found {
		t.Error("expected expired entry to miss")
	}
	if _, found, _ := s.Get(ctx, "forever"); !found {
		t.Error("zero ttl entry should not expire")
	}
	if s.Len() != 1 {
		t.Errorf("expected expired entry to be dropped on read, len=%d", s.Len())
	}
}

func TestStoreCopiesValues(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := []byte("abc")
	_ = s.Set(ctx, "k", in, 0)
	in[0] = 'z'

	out, _, _ := s.Get(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("store must not alias caller input, got %s", out)
	}
	out[1] = 'z'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("store must not alias returned values, got %s", again)
	}
}

func TestStoreConcurrent(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			_ = s.Set(ctx, key, []byte("v"), time.Minute)
			_, _, _ = s.Get(ctx, key)
			if i%7 == 0 {
				_ = s.Delete(ctx, key)
			}
		}()
	}
	wg.Wait()
}

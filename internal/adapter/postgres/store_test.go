package postgres_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/basenames/internal/adapter/postgres"
	"github.com/Strob0t/basenames/internal/domain"
	"github.com/Strob0t/basenames/internal/domain/basename"
)

// setupStore creates a pgxpool connection, runs all migrations, and returns a
// ready-to-use Store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return postgres.NewStore(pool)
}

// randomAddress returns a unique, well-formed owner address per test.
func randomAddress() string {
	id := uuid.New()
	const hexdigits = "0123456789abcdef"
	out := []byte("0x")
	for _, b := range id[:] {
		out = append(out, hexdigits[b>>4], hexdigits[b&0x0f])
	}
	for len(out) < 42 {
		out = append(out, '0')
	}
	return string(out)
}

func randomTxHash() string {
	return "0x" + uuid.NewString() + uuid.NewString()
}

func TestStore_SaveAndListRegistrations(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	owner := randomAddress()

	older := &basename.Registration{
		Name:        "alice",
		Owner:       owner,
		TxHash:      randomTxHash(),
		ValueWei:    "2500000000000000",
		DurationSec: 31536000,
		SubmittedAt: time.Now().Add(-time.Hour).UTC(),
	}
	newer := &basename.Registration{
		Name:        "bobby",
		Owner:       owner,
		TxHash:      randomTxHash(),
		ValueWei:    "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		DurationSec: 31536000,
	}

	for _, r := range []*basename.Registration{older, newer} {
		if err := store.SaveRegistration(ctx, r); err != nil {
			t.Fatalf("SaveRegistration(%s): %v", r.Name, err)
		}
		if r.ID == "" {
			t.Fatalf("expected ID assigned for %s", r.Name)
		}
	}

	// Owner match ignores hex digit case.
	got, err := store.ListRegistrations(ctx, "0x"+strings.ToUpper(owner[2:]))
	if err != nil {
		t.Fatalf("ListRegistrations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(got))
	}
	if got[0].Name != "bobby" || got[1].Name != "alice" {
		t.Errorf("expected newest first, got %s then %s", got[0].Name, got[1].Name)
	}
	if got[0].ValueWei != newer.ValueWei {
		t.Errorf("uint256 value did not round-trip: %s", got[0].ValueWei)
	}
}

func TestStore_SaveRegistrationIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	owner := randomAddress()

	r := &basename.Registration{Name: "carol", Owner: owner, TxHash: randomTxHash(), ValueWei: "1", DurationSec: 31536000}
	if err := store.SaveRegistration(ctx, r); err != nil {
		t.Fatal(err)
	}
	dup := *r
	dup.ID = ""
	if err := store.SaveRegistration(ctx, &dup); err != nil {
		t.Fatalf("duplicate tx hash should be ignored, got %v", err)
	}

	got, err := store.ListRegistrations(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 registration, got %d", len(got))
	}
}

func TestStore_SaveRegistrationRejectsBadValue(t *testing.T) {
	store := setupStore(t)

	err := store.SaveRegistration(context.Background(), &basename.Registration{
		Name: "dave", Owner: randomAddress(), TxHash: randomTxHash(), ValueWei: "1.5",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStore_GetRegistrationNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetRegistration(context.Background(), randomTxHash())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListRegistrationsEmpty(t *testing.T) {
	store := setupStore(t)

	got, err := store.ListRegistrations(context.Background(), randomAddress())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

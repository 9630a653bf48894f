package postgres

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/basenames/internal/domain"
	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/database"
)

const registrationColumns = `id::text, name, owner, tx_hash, value_wei::text, duration_sec, submitted_at`

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var _ database.Store = (*Store)(nil)

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveRegistration inserts r, assigning an ID and submission time when unset.
// Saving the same transaction hash twice is a no-op.
func (s *Store) SaveRegistration(ctx context.Context, r *basename.Registration) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}
	if _, ok := new(big.Int).SetString(r.ValueWei, 10); !ok {
		return fmt.Errorf("save registration %s: %w: value_wei %q is not an integer", r.Name, domain.ErrValidation, r.ValueWei)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO registrations (id, name, owner, tx_hash, value_wei, duration_sec, submitted_at)
		 VALUES ($1::uuid, $2, $3, $4, $5::numeric, $6, $7)
		 ON CONFLICT (tx_hash) DO NOTHING`,
		r.ID, r.Name, r.Owner, r.TxHash, r.ValueWei, r.DurationSec, r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("save registration %s: %w", r.Name, err)
	}
	return nil
}

// GetRegistration returns the registration with the given transaction hash.
func (s *Store) GetRegistration(ctx context.Context, txHash string) (*basename.Registration, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE tx_hash = $1`, txHash)
	r, err := scanRegistration(row)
	if err != nil {
		return nil, notFoundWrap(err, "get registration %s", txHash)
	}
	return &r, nil
}

// ListRegistrations returns registrations submitted for owner, newest first.
// Owner matching ignores address case.
func (s *Store) ListRegistrations(ctx context.Context, owner string) ([]basename.Registration, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+registrationColumns+` FROM registrations
		 WHERE lower(owner) = lower($1) ORDER BY submitted_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []basename.Registration
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return orEmpty(out), nil
}

func scanRegistration(row scannable) (basename.Registration, error) {
	var r basename.Registration
	err := row.Scan(&r.ID, &r.Name, &r.Owner, &r.TxHash, &r.ValueWei, &r.DurationSec, &r.SubmittedAt)
	return r, err
}

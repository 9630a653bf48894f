// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/basenames/internal/domain/basename"
)

// Store is the port interface for persisted registration history.
type Store interface {
	SaveRegistration(ctx context.Context, r *basename.Registration) error
	ListRegistrations(ctx context.Context, owner string) ([]basename.Registration, error)
}

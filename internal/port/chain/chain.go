// Package chain defines the ports for reading and writing Base name contracts.
package chain

import (
	"context"
	"math/big"

	"github.com/Strob0t/basenames/internal/domain/basename"
)

// RegistrarReader reads the registrar controller.
type RegistrarReader interface {
	// Available calls the controller's available(name) predicate.
	Available(ctx context.Context, name basename.CandidateName) (bool, error)

	// RentPrice quotes a registration of the given duration in seconds.
	RentPrice(ctx context.Context, name basename.CandidateName, duration *big.Int) (basename.RentPrice, error)
}

// RegistryReader reads the name registry.
type RegistryReader interface {
	// Owner returns the 0x-prefixed owner address bound to node.
	Owner(ctx context.Context, node basename.Node) (string, error)
}

// Wallet signs and broadcasts transactions on behalf of a connected account.
type Wallet interface {
	// Address returns the signing account.
	Address() string

	// Register submits the payable register call and returns the transaction
	// hash once broadcast. It does not wait for inclusion.
	Register(ctx context.Context, req basename.RegisterRequest) (string, error)
}

// Package nameservice defines the port for the hosted name-service API.
package nameservice

import (
	"context"
	"math/big"

	"github.com/Strob0t/basenames/internal/domain/basename"
)

// Availability is a definitive answer from the name-service API.
// PriceWei is nil when the response carried no usable price.
type Availability struct {
	Available bool
	PriceWei  *big.Int
}

// Client is the port interface for the name-service availability endpoint.
// Implementations return an error for transport failures, non-2xx responses
// and bodies that do not define the availability field.
type Client interface {
	Availability(ctx context.Context, name basename.CandidateName) (Availability, error)
}

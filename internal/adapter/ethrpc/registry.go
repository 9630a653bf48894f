package ethrpc

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/chain"
)

// Registry reads node owners from the name registry.
type Registry struct {
	guard
	contract *bind.BoundContract
}

var _ chain.RegistryReader = (*Registry)(nil)

// NewRegistry binds the registry at address.
func NewRegistry(backend bind.ContractCaller, address string) *Registry {
	return &Registry{
		contract: bind.NewBoundContract(common.HexToAddress(address), RegistryABI, backend, nil, nil),
	}
}

// Owner calls owner(node) and returns the checksummed owner address.
func (r *Registry) Owner(ctx context.Context, node basename.Node) (string, error) {
	out, err := r.call(ctx, r.contract, "owner", [32]byte(node))
	if err != nil {
		return "", fmt.Errorf("owner %s: %w", node.Hex(), err)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("owner %s: %w", node.Hex(), ErrUnexpectedOutput)
	}
	return addr.Hex(), nil
}

package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/chain"
	"github.com/Strob0t/basenames/internal/resilience"
)

// JSON-RPC error code nodes use for reverted eth_call executions.
const revertErrorCode = 3

// ErrUnexpectedOutput is returned when a call decodes to the wrong shape.
var ErrUnexpectedOutput = errors.New("unexpected contract output")

// guard bundles the resilience wrappers applied to read-only calls.
type guard struct {
	breaker  *resilience.Breaker
	bulkhead *resilience.Bulkhead
	timeout  time.Duration
}

// SetCallTimeout bounds each contract call. Zero leaves calls unbounded.
func (g *guard) SetCallTimeout(d time.Duration) { g.timeout = d }

// SetBreaker attaches a circuit breaker to all contract calls.
func (g *guard) SetBreaker(b *resilience.Breaker) { g.breaker = b }

// SetBulkhead caps concurrent contract calls.
func (g *guard) SetBulkhead(b *resilience.Bulkhead) { g.bulkhead = b }

// Registrar reads the registrar controller.
type Registrar struct {
	guard
	contract *bind.BoundContract
}

var _ chain.RegistrarReader = (*Registrar)(nil)

// NewRegistrar binds the registrar controller at address.
func NewRegistrar(backend bind.ContractCaller, address string) *Registrar {
	return &Registrar{
		contract: bind.NewBoundContract(common.HexToAddress(address), RegistrarControllerABI, backend, nil, nil),
	}
}

// Available calls available(name).
func (r *Registrar) Available(ctx context.Context, name basename.CandidateName) (bool, error) {
	out, err := r.call(ctx, r.contract, "available", name.String())
	if err != nil {
		return false, fmt.Errorf("available %s: %w", name, err)
	}
	ok, isBool := out[0].(bool)
	if !isBool {
		return false, fmt.Errorf("available %s: %w", name, ErrUnexpectedOutput)
	}
	return ok, nil
}

type priceTuple struct {
	Base    *big.Int
	Premium *big.Int
}

// RentPrice calls rentPrice(name, duration).
func (r *Registrar) RentPrice(ctx context.Context, name basename.CandidateName, duration *big.Int) (basename.RentPrice, error) {
	out, err := r.call(ctx, r.contract, "rentPrice", name.String(), duration)
	if err != nil {
		return basename.RentPrice{}, fmt.Errorf("rentPrice %s: %w", name, err)
	}
	p, ok := abi.ConvertType(out[0], new(priceTuple)).(*priceTuple)
	if !ok || p.Base == nil || p.Premium == nil {
		return basename.RentPrice{}, fmt.Errorf("rentPrice %s: %w", name, ErrUnexpectedOutput)
	}
	return basename.RentPrice{Base: p.Base, Premium: p.Premium}, nil
}

// call runs one read-only contract call through the bulkhead and breaker.
// A timed-out call counts against the breaker; a revert does not, since the
// node answered.
func (g *guard) call(ctx context.Context, contract *bind.BoundContract, method string, args ...any) ([]any, error) {
	var out []any
	var reverted error
	do := func(ctx context.Context) error {
		out, reverted = nil, nil
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
			if isRevert(err) {
				reverted = err
				return nil
			}
			return err
		}
		if len(out) == 0 {
			return ErrUnexpectedOutput
		}
		return nil
	}

	err := g.bulkhead.Run(ctx, func(ctx context.Context) error {
		if g.breaker != nil {
			return g.breaker.ExecuteContext(ctx, do)
		}
		return do(ctx)
	})
	if err == nil {
		err = reverted
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// isRevert reports whether err is an execution revert returned by the node.
func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}

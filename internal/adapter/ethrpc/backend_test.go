package ethrpc_test

import (
	"context"
	"errors"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var errRPC = errors.New("rpc unavailable")

// fakeBackend is an in-memory bind.ContractBackend. Call handlers receive the
// decoded arguments and return the raw ABI-encoded output.
type fakeBackend struct {
	mu       sync.Mutex
	contract abi.ABI
	handlers map[string]func(args []any) ([]byte, error)
	calls    map[string]int
	hang     map[string]bool
	sent     []*types.Transaction
	sendErr  error
}

func newFakeBackend(contract abi.ABI) *fakeBackend {
	return &fakeBackend{
		contract: contract,
		handlers: make(map[string]func([]any) ([]byte, error)),
		calls:    make(map[string]int),
		hang:     make(map[string]bool),
	}
}

func (f *fakeBackend) handle(method string, fn func(args []any) ([]byte, error)) {
	f.handlers[method] = fn
}

// hangOn makes calls to method block until their context ends, like an
// unresponsive node.
func (f *fakeBackend) hangOn(method string) {
	f.hang[method] = true
}

func (f *fakeBackend) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	m, err := f.contract.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := m.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls[m.Name]++
	fn := f.handlers[m.Name]
	hang := f.hang[m.Name]
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if fn == nil {
		return nil, errRPC
	}
	return fn(args)
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: big.NewInt(1_000_000)}, nil
}

func (f *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000), nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 300_000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *fakeBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("not supported")
}

// revertError mimics the JSON-RPC error a node returns for a reverted call.
type revertError struct{}

func (revertError) Error() string  { return "execution reverted" }
func (revertError) ErrorCode() int { return 3 }

// word left-pads b into one 32-byte ABI word.
func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

func encodeBool(v bool) []byte {
	if v {
		return word([]byte{1})
	}
	return word(nil)
}

func encodeUints(vs ...*big.Int) []byte {
	var out []byte
	for _, v := range vs {
		out = append(out, word(v.Bytes())...)
	}
	return out
}

package ethrpc

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/port/chain"
	"github.com/Strob0t/basenames/internal/resilience"
)

// ErrInvalidKey is returned for wallet keys that are not 32-byte hex secp256k1 keys.
var ErrInvalidKey = errors.New("invalid wallet key")

// Wallet signs register transactions with a local private key.
type Wallet struct {
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	contract *bind.BoundContract
	breaker  *resilience.Breaker
}

var _ chain.Wallet = (*Wallet)(nil)

// NewWallet creates a wallet for hexKey (with or without 0x) bound to the
// registrar controller at controller.
func NewWallet(backend bind.ContractBackend, controller, hexKey string, chainID int64) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return &Wallet{
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		chainID:  big.NewInt(chainID),
		contract: bind.NewBoundContract(common.HexToAddress(controller), RegistrarControllerABI, backend, backend, backend),
	}, nil
}

// SetBreaker attaches a circuit breaker to broadcasts.
func (w *Wallet) SetBreaker(b *resilience.Breaker) {
	w.breaker = b
}

// Address returns the checksummed signing address.
func (w *Wallet) Address() string {
	return w.from.Hex()
}

// Register submits register(name, owner, duration, 0x0, [], false, 0) with
// req.Value attached and returns the transaction hash.
func (w *Wallet) Register(ctx context.Context, req basename.RegisterRequest) (string, error) {
	if req.Duration == nil || req.Value == nil {
		return "", errors.New("register: duration and value are required")
	}

	var txHash string
	send := func(ctx context.Context) error {
		opts, err := bind.NewKeyedTransactorWithChainID(w.key, w.chainID)
		if err != nil {
			return fmt.Errorf("transactor: %w", err)
		}
		opts.Context = ctx
		opts.Value = new(big.Int).Set(req.Value)

		tx, err := w.contract.Transact(opts, "register",
			req.Name.String(),
			common.HexToAddress(req.Owner),
			req.Duration,
			common.Address{},
			[][]byte{},
			false,
			uint32(0),
		)
		if err != nil {
			return err
		}
		txHash = tx.Hash().Hex()
		return nil
	}

	var err error
	if w.breaker != nil {
		err = w.breaker.ExecuteContext(ctx, send)
	} else {
		err = send(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("register %s: %w", req.Name, err)
	}
	return txHash, nil
}

package ethrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Dial connects to the JSON-RPC endpoint and checks it serves the expected
// chain. A zero wantChainID skips the check.
func Dial(ctx context.Context, rpcURL string, wantChainID int64) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	if wantChainID == 0 {
		return client, nil
	}

	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if id.Cmp(big.NewInt(wantChainID)) != 0 {
		client.Close()
		return nil, fmt.Errorf("rpc serves chain %s, want %d", id, wantChainID)
	}
	return client, nil
}

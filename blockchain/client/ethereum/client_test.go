package ethereum

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulpokala13/PandoraBox/blockchain/types"
	"github.com/rahulpokala13/PandoraBox/config"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[TEST] ", log.LstdFlags)
}

// newUnreachableClient builds a client against a port nothing listens on.
// HTTP providers dial lazily, so construction succeeds and every call
// reports its own transport error.
func newUnreachableClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.ChainConfig{
		ChainType:      "ethereum",
		TimeoutSeconds: 1,
		ChainSpecific: &EthereumConfig{
			RPCURL:          "http://127.0.0.1:1",
			ChainID:         31337,
			PrivateKey:      "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
			ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		},
	}
	client, err := NewEthereumClient(cfg, testLogger())
	require.NoError(t, err)
	return client
}

func TestClientCallsAfterClose(t *testing.T) {
	client := newUnreachableClient(t)
	ctx := context.Background()

	_, _, err := client.GetProduct(ctx, [32]byte{})
	assert.ErrorIs(t, err, types.ErrChainUnavailable, "unreachable provider is a transport error while open")

	require.NoError(t, client.Close())

	_, _, err = client.GetProduct(ctx, [32]byte{})
	assert.ErrorIs(t, err, types.ErrNotConnected)
	_, err = client.GetVerifications(ctx, [32]byte{})
	assert.ErrorIs(t, err, types.ErrNotConnected)
	_, err = client.RegisterProduct(ctx, "Red Apple", [32]byte{}, 1700000000)
	assert.ErrorIs(t, err, types.ErrNotConnected)
	_, err = client.VerifyProduct(ctx, [32]byte{})
	assert.ErrorIs(t, err, types.ErrNotConnected)

	t.Run("closing twice is a no-op", func(t *testing.T) {
		assert.NoError(t, client.Close())
	})
}

// Logout can close the chain client while the background healing pass is
// still reading through it. Reads racing Close must settle to a clean
// not-connected error, never a torn handle.
func TestClientCloseDuringInFlightReads(t *testing.T) {
	client := newUnreachableClient(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _, err := client.GetProduct(ctx, [32]byte{})
				if errors.Is(err, types.ErrNotConnected) {
					return
				}
			}
		}()
	}

	require.NoError(t, client.Close())
	wg.Wait()

	_, _, err := client.GetProduct(ctx, [32]byte{})
	assert.ErrorIs(t, err, types.ErrNotConnected)
}

package blockchain

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rahulpokala13/PandoraBox/blockchain/types"
)

// DevSignerAddress is the address the memory client attributes state-changing
// calls to, matching the first dev-node account the dashboard signs with.
const DevSignerAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

type memoryProduct struct {
	name         string
	registeredBy string
	timestamp    uint64
	blockNumber  uint64
}

// MemoryClient simulates the PandoraBoxAuthenticator contract in process.
// It is the authoritative store for tests and for running the dashboard
// without a node. Contract semantics are pinned here: re-registering an
// existing id reverts, and verifying an unregistered id reverts.
type MemoryClient struct {
	mu            sync.Mutex
	logger        *log.Logger
	signer        string
	height        uint64
	products      map[[32]byte]memoryProduct
	verifications map[[32]byte][]types.VerificationRecord
	closed        bool

	now func() uint64
}

// NewMemoryClient creates a simulator signing as the default dev account.
func NewMemoryClient(logger *log.Logger) *MemoryClient {
	return NewMemoryClientWithSigner(logger, DevSignerAddress)
}

// NewMemoryClientWithSigner creates a simulator attributing calls to the
// given address. Tests use distinct signers to model multiple devices.
func NewMemoryClientWithSigner(logger *log.Logger, signer string) *MemoryClient {
	return &MemoryClient{
		logger:        logger,
		signer:        signer,
		products:      make(map[[32]byte]memoryProduct),
		verifications: make(map[[32]byte][]types.VerificationRecord),
		now:           func() uint64 { return uint64(time.Now().Unix()) },
	}
}

func (c *MemoryClient) RegisterProduct(ctx context.Context, name string, id [32]byte, timestamp uint64) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrChainUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrNotConnected
	}
	if _, exists := c.products[id]; exists {
		return nil, &types.RevertError{Reason: "product already registered"}
	}

	c.height++
	c.products[id] = memoryProduct{
		name:         name,
		registeredBy: c.signer,
		timestamp:    timestamp,
		blockNumber:  c.height,
	}
	return &types.Receipt{TxHash: fmt.Sprintf("0xmem%08d", c.height), BlockNumber: c.height}, nil
}

func (c *MemoryClient) VerifyProduct(ctx context.Context, id [32]byte) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrChainUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrNotConnected
	}
	if _, exists := c.products[id]; !exists {
		return nil, &types.RevertError{Reason: "product not registered"}
	}

	c.height++
	c.verifications[id] = append(c.verifications[id], types.VerificationRecord{
		Verifier:  c.signer,
		Timestamp: c.now(),
	})
	return &types.Receipt{TxHash: fmt.Sprintf("0xmem%08d", c.height), BlockNumber: c.height}, nil
}

func (c *MemoryClient) GetProduct(ctx context.Context, id [32]byte) (*types.ProductRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", types.ErrChainUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, types.ErrNotConnected
	}
	p, exists := c.products[id]
	if !exists {
		return nil, false, nil
	}
	return &types.ProductRecord{
		Name:         p.name,
		RegisteredBy: p.registeredBy,
		Timestamp:    p.timestamp,
		BlockNumber:  p.blockNumber,
	}, true, nil
}

func (c *MemoryClient) GetVerifications(ctx context.Context, id [32]byte) ([]types.VerificationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrChainUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrNotConnected
	}
	out := make([]types.VerificationRecord, len(c.verifications[id]))
	copy(out, c.verifications[id])
	return out, nil
}

func (c *MemoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

var _ ChainClient = (*MemoryClient)(nil)

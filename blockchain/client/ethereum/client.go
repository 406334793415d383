package ethereum

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net"
	"strings"
	"sync"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rahulpokala13/PandoraBox/blockchain/types"
	"github.com/rahulpokala13/PandoraBox/config"
)

// verificationEntry mirrors the tuple returned by getVerifications.
type verificationEntry struct {
	Verifier  common.Address
	Timestamp *big.Int
}

// Client is the wrapper around an Ethereum JSON-RPC provider and the bound
// PandoraBoxAuthenticator contract. It holds the single signing credential
// of the session. Logout may close the client while the background healing
// pass is still using it, so the closed flag is mutex-guarded.
type Client struct {
	mu       sync.Mutex
	closed   bool
	eth      *ethclient.Client
	contract *bind.BoundContract
	opts     *bind.TransactOpts
	address  common.Address
	timeout  time.Duration
	cfg      *config.ChainConfig
	logger   *log.Logger
}

// connection returns the provider handle, or ErrNotConnected once the
// client has been closed. Calls in flight when Close lands see the rpc
// connection shut down under them and report their own errors.
func (c *Client) connection() (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, types.ErrNotConnected
	}
	return c.eth, nil
}

// NewEthereumClient dials the provider and binds the contract using the
// combined configuration.
func NewEthereumClient(cfg *config.ChainConfig, logger *log.Logger) (*Client, error) {
	ethCfg, ok := cfg.ChainSpecific.(*EthereumConfig)
	if !ok {
		return nil, fmt.Errorf("invalid Ethereum configuration type")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	dialCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	eth, err := ethclient.DialContext(dialCtx, ethCfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to dial provider '%s': %v", types.ErrChainUnavailable, ethCfg.RPCURL, err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(ethCfg.PrivateKey, "0x"))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	chainID := big.NewInt(ethCfg.ChainID)
	if ethCfg.ChainID == 0 {
		chainID, err = eth.ChainID(dialCtx)
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("%w: failed to query chain id: %v", types.ErrChainUnavailable, err)
		}
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to build transactor: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	address := common.HexToAddress(ethCfg.ContractAddress)
	contract := bind.NewBoundContract(address, parsed, eth, eth, eth)

	logger.Printf("[Chain] Connected to %s, contract %s, signer %s", ethCfg.RPCURL, address.Hex(), opts.From.Hex())

	return &Client{
		eth:      eth,
		contract: contract,
		opts:     opts,
		address:  address,
		timeout:  timeout,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// NewEthereumClientFromFile dials the provider using a configuration file path
func NewEthereumClientFromFile(configPath string, logger *log.Logger) (*Client, error) {
	ethCfg, err := LoadEthereumConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load Ethereum config from file '%s': %w", configPath, err)
	}

	chainCfg := &config.ChainConfig{
		ChainType:      "ethereum",
		ChainSpecific:  ethCfg,
		TimeoutSeconds: 30,
	}

	return NewEthereumClient(chainCfg, logger)
}

func (c *Client) RegisterProduct(ctx context.Context, name string, id [32]byte, timestamp uint64) (*types.Receipt, error) {
	return c.transact(ctx, "registerProduct", name, id, new(big.Int).SetUint64(timestamp))
}

func (c *Client) VerifyProduct(ctx context.Context, id [32]byte) (*types.Receipt, error) {
	return c.transact(ctx, "verifyProduct", id)
}

// transact submits a state-changing call and blocks until it is mined.
// A failed receipt is reported as a revert with the reason replayed from
// the node when it can be recovered.
func (c *Client) transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	eth, err := c.connection()
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := *c.opts
	opts.Context = callCtx

	tx, err := c.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, classify(err, types.ErrSubmissionRejected)
	}

	receipt, err := bind.WaitMined(callCtx, eth, tx)
	if err != nil {
		return nil, classify(err, types.ErrChainUnavailable)
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, &types.RevertError{Reason: c.revertReason(callCtx, eth, tx, receipt)}
	}

	return &types.Receipt{
		TxHash:      tx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}

// revertReason replays the failed transaction as a call at its block to
// recover the contract's revert string. Best effort only.
func (c *Client) revertReason(ctx context.Context, eth *ethclient.Client, tx *ethtypes.Transaction, receipt *ethtypes.Receipt) string {
	msg := geth.CallMsg{
		From:     c.opts.From,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	res, err := eth.CallContract(ctx, msg, receipt.BlockNumber)
	if err != nil {
		return err.Error()
	}
	reason, err := abi.UnpackRevert(res)
	if err != nil {
		return "execution reverted"
	}
	return reason
}

func (c *Client) GetProduct(ctx context.Context, id [32]byte) (*types.ProductRecord, bool, error) {
	if _, err := c.connection(); err != nil {
		return nil, false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: callCtx}, &out, "getProduct", id)
	if err != nil {
		return nil, false, classify(err, types.ErrChainUnavailable)
	}

	exists := *abi.ConvertType(out[0], new(bool)).(*bool)
	if !exists {
		return nil, false, nil
	}

	name := *abi.ConvertType(out[1], new(string)).(*string)
	registeredBy := *abi.ConvertType(out[2], new(common.Address)).(*common.Address)
	timestamp := *abi.ConvertType(out[3], new(*big.Int)).(**big.Int)
	blockNumber := *abi.ConvertType(out[4], new(*big.Int)).(**big.Int)

	return &types.ProductRecord{
		Name:         name,
		RegisteredBy: registeredBy.Hex(),
		Timestamp:    timestamp.Uint64(),
		BlockNumber:  blockNumber.Uint64(),
	}, true, nil
}

func (c *Client) GetVerifications(ctx context.Context, id [32]byte) ([]types.VerificationRecord, error) {
	if _, err := c.connection(); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: callCtx}, &out, "getVerifications", id)
	if err != nil {
		return nil, classify(err, types.ErrChainUnavailable)
	}

	entries := *abi.ConvertType(out[0], new([]verificationEntry)).(*[]verificationEntry)

	records := make([]types.VerificationRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, types.VerificationRecord{
			Verifier:  e.Verifier.Hex(),
			Timestamp: e.Timestamp.Uint64(),
		})
	}
	return records, nil
}

// Close releases the provider connection and with it the signing
// credential. Safe to call concurrently with in-flight calls and safe to
// call twice.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Println("[Chain] Closing Ethereum client...")
	c.eth.Close()
	return nil
}

// classify maps transport-level failures to ErrChainUnavailable and leaves
// everything else on the given fallback sentinel.
func classify(err error, fallback error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", types.ErrChainUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", types.ErrChainUnavailable, err)
	}
	return fmt.Errorf("%w: %v", fallback, err)
}

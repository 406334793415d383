// Package reconcile merges the authoritative on-chain record with the local
// ledger: it heals chain drift by replaying cached registrations at session
// start, and it resolves raw addresses to human identities when verifying.
// The chain is always the tie-breaker for whether a product exists.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	blockchain "github.com/rahulpokala13/PandoraBox/blockchain/client"
	"github.com/rahulpokala13/PandoraBox/blockchain/types"
	"github.com/rahulpokala13/PandoraBox/internal/codec"
	"github.com/rahulpokala13/PandoraBox/internal/models"
	"github.com/rahulpokala13/PandoraBox/ledger"
)

// UnknownVerifier is the display name attached to on-chain verification
// entries that have no matching local log entry, e.g. verifications
// performed from another device that never wrote to this ledger.
const UnknownVerifier = "unknown"

// State is the progress of a single verification attempt. Submitting
// covers the transaction submission and wait for mining, Confirming the
// post-mining re-read of the canonical record. Failed is terminal and
// fully reported to the caller.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateConfirming State = "confirming"
	StateMerging    State = "merging"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// ChainProvider hands out the session's current chain client, or nil when
// no signing credential is attached.
type ChainProvider interface {
	Chain() blockchain.ChainClient
}

// MergedVerification pairs an on-chain verification entry with the locally
// recorded username of the verifier.
type MergedVerification struct {
	Verifier  string
	Username  string
	Timestamp uint64
}

// Outcome is the result of a verify-and-merge pass. Registered=false with a
// nil error is the normal "not registered" outcome, not a failure.
type Outcome struct {
	ProductID        string
	Registered       bool
	Product          *types.ProductRecord
	RegisteredByName string
	Verifications    []MergedVerification
	Receipt          *types.Receipt
}

// Engine owns the reconciliation logic between the chain gateway and the
// local ledger.
type Engine struct {
	provider ChainProvider
	store    ledger.Store
	logger   *log.Logger

	now func() uint64
}

// New creates an Engine over the given chain provider and local ledger.
func New(provider ChainProvider, store ledger.Store, logger *log.Logger) *Engine {
	return &Engine{
		provider: provider,
		store:    store,
		logger:   logger,
		now:      func() uint64 { return uint64(time.Now().Unix()) },
	}
}

func (e *Engine) chain() (blockchain.ChainClient, error) {
	client := e.provider.Chain()
	if client == nil {
		return nil, types.ErrNotConnected
	}
	return client, nil
}

// Reassert replays every locally cached product registration against the
// chain, preserving the original registration timestamps. It is a
// best-effort healing pass: each item is independent, failures are logged
// and never surfaced, and the contract's duplicate rejection is what makes
// the replay idempotent. Submissions run sequentially because they share
// one signing credential.
func (e *Engine) Reassert(ctx context.Context) {
	client, err := e.chain()
	if err != nil {
		e.logger.Printf("[Reconcile] Healing pass skipped: %v", err)
		return
	}

	products, err := e.store.GetProducts()
	if err != nil {
		e.logger.Printf("[Reconcile] Healing pass skipped, cannot read product cache: %v", err)
		return
	}
	if len(products) == 0 {
		return
	}

	healed, present, failed := 0, 0, 0
	for _, p := range products {
		id, err := codec.Encode(p.ProductID)
		if err != nil {
			e.logger.Printf("[Reconcile] Skipping cached product '%s': %v", p.ProductID, err)
			failed++
			continue
		}

		_, err = client.RegisterProduct(ctx, p.Name, id, p.Timestamp)
		if err != nil {
			var revert *types.RevertError
			if errors.As(err, &revert) {
				// Already on chain; the contract rejecting the duplicate is
				// the expected outcome for a healthy ledger.
				present++
			} else {
				e.logger.Printf("[Reconcile] Failed to re-assert product '%s': %v", p.ProductID, err)
				failed++
			}
			continue
		}
		healed++
	}

	e.logger.Printf("[Reconcile] Healing pass complete: %d re-asserted, %d already on chain, %d failed, of %d cached",
		healed, present, failed, len(products))
}

// RegisterProduct records a new product locally and registers it on-chain.
// The local duplicate check runs before any chain call; a chain failure is
// surfaced but leaves the local record in place, to be healed by the next
// reassert pass.
func (e *Engine) RegisterProduct(ctx context.Context, name, rawID, seller string) (*types.Receipt, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}

	id, err := codec.Encode(strings.TrimSpace(rawID))
	if err != nil {
		return nil, err
	}

	record := models.Product{
		ProductID: strings.TrimSpace(rawID),
		Name:      name,
		Seller:    seller,
		Timestamp: e.now(),
	}
	if err := e.store.PutProduct(record); err != nil {
		return nil, err
	}

	client, err := e.chain()
	if err != nil {
		return nil, fmt.Errorf("product cached locally but not registered on chain: %w", err)
	}

	receipt, err := client.RegisterProduct(ctx, record.Name, id, record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("product cached locally but chain registration failed: %w", err)
	}
	return receipt, nil
}

// VerifyAndMerge runs the interactive verification workflow for a human or
// QR-supplied product id: record the verification on-chain, then merge the
// chain's verification log with the local username log and resolve the
// registrant to a display name. The observer, if non-nil, sees every state
// transition; errors on this path are fully reported to the caller.
func (e *Engine) VerifyAndMerge(ctx context.Context, rawID, currentUsername string, observe func(State)) (*Outcome, error) {
	notify := func(s State) {
		if observe != nil {
			observe(s)
		}
	}
	fail := func(err error) (*Outcome, error) {
		notify(StateFailed)
		return nil, err
	}

	notify(StateIdle)

	rawID = strings.TrimSpace(rawID)
	id, err := codec.Encode(rawID)
	if err != nil {
		return fail(err)
	}

	client, err := e.chain()
	if err != nil {
		return fail(err)
	}

	// The chain decides existence; an unknown id is a normal outcome.
	_, found, err := client.GetProduct(ctx, id)
	if err != nil {
		return fail(err)
	}
	if !found {
		notify(StateDone)
		return &Outcome{ProductID: rawID, Registered: false}, nil
	}

	notify(StateSubmitting)
	receipt, err := client.VerifyProduct(ctx, id)
	if err != nil {
		return fail(err)
	}

	notify(StateConfirming)

	// Re-read post-verification for the canonical record.
	product, found, err := client.GetProduct(ctx, id)
	if err != nil {
		return fail(err)
	}
	if !found {
		// The verification just confirmed against this id; a vanished
		// product means the provider is lying or forked.
		return fail(fmt.Errorf("product '%s' disappeared after verification", rawID))
	}

	notify(StateMerging)

	if err := e.store.AppendVerification(models.Verification{
		ProductID: rawID,
		Username:  currentUsername,
		Timestamp: e.now(),
	}); err != nil {
		return fail(fmt.Errorf("verification confirmed on chain but local log append failed: %w", err))
	}

	chainLog, err := client.GetVerifications(ctx, id)
	if err != nil {
		return fail(err)
	}
	localLog, err := e.store.GetVerificationsFor(rawID)
	if err != nil {
		return fail(err)
	}

	outcome := &Outcome{
		ProductID:        rawID,
		Registered:       true,
		Product:          product,
		RegisteredByName: e.resolveAddress(product.RegisteredBy),
		Verifications:    mergeLogs(chainLog, localLog),
		Receipt:          receipt,
	}

	notify(StateDone)
	return outcome, nil
}

// resolveAddress maps an on-chain address to a local username via the user
// directory's wallet addresses, falling back to the raw address.
func (e *Engine) resolveAddress(address string) string {
	users, err := e.store.GetUsers()
	if err != nil {
		e.logger.Printf("[Reconcile] Cannot read user directory: %v", err)
		return address
	}
	for _, u := range users {
		if u.WalletAddress != "" && strings.EqualFold(u.WalletAddress, address) {
			return u.Username
		}
	}
	return address
}

// mergeLogs pairs the chain's verification log with the local username log
// positionally, both being append-only and in call order. Chain entries
// beyond the local log's length were written by other devices and resolve
// to the UnknownVerifier sentinel; that length mismatch is expected, not an
// error.
func mergeLogs(chainLog []types.VerificationRecord, localLog []models.Verification) []MergedVerification {
	merged := make([]MergedVerification, 0, len(chainLog))
	for i, entry := range chainLog {
		username := UnknownVerifier
		if i < len(localLog) {
			username = localLog[i].Username
		}
		merged = append(merged, MergedVerification{
			Verifier:  entry.Verifier,
			Username:  username,
			Timestamp: entry.Timestamp,
		})
	}
	return merged
}

package blockchain

import (
	"context"

	"github.com/rahulpokala13/PandoraBox/blockchain/types"
)

// ChainClient is the sole point of contact with the authoritative ledger.
// It is the only component holding a signing credential and a live RPC
// connection. State-changing calls block until the transaction is mined;
// read-only calls may run concurrently. Submissions from one credential
// must stay strictly ordered, so callers replay registrations sequentially.
type ChainClient interface {
	// RegisterProduct submits a registration and waits for confirmation.
	// The timestamp argument is recorded verbatim on-chain, which is what
	// lets the healing pass preserve original registration times.
	RegisterProduct(ctx context.Context, name string, id [32]byte, timestamp uint64) (*types.Receipt, error)

	// VerifyProduct appends an address-attributed entry to the on-chain
	// verification log and waits for confirmation. Deliberately
	// state-changing so verification events are durable.
	VerifyProduct(ctx context.Context, id [32]byte) (*types.Receipt, error)

	// GetProduct reads the authoritative product record. A product whose
	// on-chain exists flag is false yields found=false, not an error.
	GetProduct(ctx context.Context, id [32]byte) (*types.ProductRecord, bool, error)

	// GetVerifications reads the on-chain verification log in call order.
	// A product with no verifications yields an empty slice.
	GetVerifications(ctx context.Context, id [32]byte) ([]types.VerificationRecord, error)

	// Close releases the RPC connection and the signing credential.
	Close() error
}

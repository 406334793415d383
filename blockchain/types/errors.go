package types

import (
	"errors"
	"fmt"
)

// Connectivity and submission errors shared by every chain client
// implementation. Callers match with errors.Is.
var (
	// ErrChainUnavailable means the JSON-RPC provider could not be reached
	// (or a call timed out before the node answered).
	ErrChainUnavailable = errors.New("chain unavailable")

	// ErrNotConnected means no signing credential is attached, e.g. the
	// client was closed or the session never acquired a chain connection.
	ErrNotConnected = errors.New("not connected to chain")

	// ErrSubmissionRejected means the node refused the transaction before
	// mining it (malformed arguments, failed gas estimate, bad nonce).
	ErrSubmissionRejected = errors.New("submission rejected by node")
)

// RevertError is returned when the contract logic rejected a submitted
// transaction after mining. Callers match with errors.As.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "contract reverted"
	}
	return fmt.Sprintf("contract reverted: %s", e.Reason)
}

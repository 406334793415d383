package types

// ProductRecord is the authoritative on-chain product entry returned by
// the contract's getProduct call. RegisteredBy is a 0x-prefixed hex address.
type ProductRecord struct {
	Name         string
	RegisteredBy string
	Timestamp    uint64
	BlockNumber  uint64
}

// VerificationRecord is a single entry of the on-chain verification log.
// The log is append-only and unbounded; entries are returned in call order.
type VerificationRecord struct {
	Verifier  string
	Timestamp uint64
}

// Receipt is the on-chain proof returned after a confirmed state-changing
// call (registerProduct or verifyProduct).
type Receipt struct {
	TxHash      string
	BlockNumber uint64
}

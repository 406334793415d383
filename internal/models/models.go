package models

// Role distinguishes who may register products from who only verifies them.
type Role string

const (
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleSeller || r == RoleCustomer
}

// Product is the locally cached registration record, written at registration
// time and replayed against the chain by the healing pass. Timestamp is the
// original registration time in unix seconds and must be preserved verbatim
// across replays.
type Product struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Seller    string `json:"seller"` // username of the registering identity
	Timestamp uint64 `json:"timestamp"`
}

// User is an entry of the local user directory. Password holds a bcrypt
// hash; directories migrated from older revisions may still hold plaintext,
// which login accepts and upgrades on the next password change.
type User struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	Role             Role   `json:"role"`
	RegistrationDate string `json:"registration_date"`
	WalletAddress    string `json:"wallet_address,omitempty"`
}

// Verification is an entry of the local verification log, pairing a product
// verification with the local username that performed it. The chain only
// records addresses; this log is what makes a verifier human-readable.
type Verification struct {
	ProductID string `json:"product_id"`
	Username  string `json:"username"`
	Timestamp uint64 `json:"timestamp"`
}

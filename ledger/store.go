// Package ledger is the process-external local store backing the product
// cache, the user directory and the verification log. It accelerates the UI
// and attributes human identities to on-chain addresses; the chain remains
// the authority on whether a product exists.
package ledger

import (
	"errors"

	"github.com/rahulpokala13/PandoraBox/internal/models"
)

var (
	ErrDuplicateProductID = errors.New("product id already exists in local ledger")
	ErrDuplicateUsername  = errors.New("username already exists in local ledger")
	ErrUnknownUsername    = errors.New("username not found in local ledger")
)

// Store provides the three independently keyed tables of the local ledger.
// There are no transactions across tables: callers must tolerate a partial
// write if the process dies between two table updates. Each single write is
// as atomic as the backing medium allows.
type Store interface {
	// GetProducts returns the cached product registrations in insertion order.
	GetProducts() ([]models.Product, error)

	// PutProduct appends a product record, failing with ErrDuplicateProductID
	// when a record with the same id is already cached.
	PutProduct(p models.Product) error

	// GetUsers returns the user directory.
	GetUsers() ([]models.User, error)

	// PutUser appends a user record, failing with ErrDuplicateUsername when
	// the username is taken.
	PutUser(u models.User) error

	// UpdateUser replaces the record with the same username, failing with
	// ErrUnknownUsername when it does not exist.
	UpdateUser(u models.User) error

	// AppendVerification appends an entry to the verification log.
	AppendVerification(v models.Verification) error

	// GetVerificationsFor returns the log entries for one product id, in
	// append order.
	GetVerificationsFor(productID string) ([]models.Verification, error)
}

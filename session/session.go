// Package session resolves the logged-in local identity and owns the
// lifecycle of the chain connection tied to it: one session, one signing
// credential, per running client.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	blockchain "github.com/rahulpokala13/PandoraBox/blockchain/client"
	"github.com/rahulpokala13/PandoraBox/internal/models"
	"github.com/rahulpokala13/PandoraBox/ledger"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmptyField         = errors.New("username and password are required")
	ErrInvalidRole        = errors.New("role must be seller or customer")
	ErrNoSession          = errors.New("no active session")
)

// Session is the ephemeral login state. It exists only between login and
// logout; the user record itself is never deleted.
type Session struct {
	ID        string
	Username  string
	Role      models.Role
	CreatedAt time.Time
}

// ChainFactory acquires a chain client with the session's signing
// credential attached.
type ChainFactory func() (blockchain.ChainClient, error)

// Healer runs the session-start healing pass once a chain connection is up.
type Healer interface {
	Reassert(ctx context.Context)
}

// Manager is the process-wide session holder. Login acquires the chain
// credential softly: a failed chain connection still yields a valid
// session, with chain-dependent operations reporting their own errors.
type Manager struct {
	store   ledger.Store
	factory ChainFactory
	logger  *log.Logger

	mu      sync.Mutex
	healer  Healer
	current *Session
	chain   blockchain.ChainClient
}

// NewManager creates a Manager over the given user directory and chain factory.
func NewManager(store ledger.Store, factory ChainFactory, logger *log.Logger) *Manager {
	return &Manager{store: store, factory: factory, logger: logger}
}

// SetHealer wires the reconciliation engine's healing pass into login.
func (m *Manager) SetHealer(h Healer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healer = h
}

// Register creates a new local identity and logs it in. The wallet
// address is optional; when present it lets verification outcomes show
// this user's name instead of a raw on-chain address.
func (m *Manager) Register(username, password string, role models.Role, walletAddress string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyField
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:         username,
		Password:         string(hash),
		Role:             role,
		RegistrationDate: time.Now().UTC().Format(time.RFC3339),
		WalletAddress:    strings.TrimSpace(walletAddress),
	}
	if err := m.store.PutUser(user); err != nil {
		if errors.Is(err, ledger.ErrDuplicateUsername) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return nil, err
	}

	return m.startSession(user), nil
}

// Login authenticates against the local user directory and starts a
// session. Directories migrated from older revisions may hold plaintext
// passwords; those still match and are upgraded on the next password change.
func (m *Manager) Login(username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyField
	}

	user, found, err := m.lookupUser(username)
	if err != nil {
		return nil, err
	}
	if !found || !passwordMatches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return m.startSession(user), nil
}

func passwordMatches(stored, supplied string) bool {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil {
		return true
	}
	// Legacy plaintext record.
	if !strings.HasPrefix(stored, "$2") && stored == supplied {
		return true
	}
	return false
}

// startSession replaces any existing session, acquires the chain credential
// (soft failure) and kicks off the background healing pass.
func (m *Manager) startSession(user models.User) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeChainLocked()

	session := &Session{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}
	m.current = session

	chain, err := m.factory()
	if err != nil {
		m.logger.Printf("[Session] Chain connection failed, continuing without chain features: %v", err)
	} else {
		m.chain = chain
		if m.healer != nil {
			// Best-effort background healing; never blocks login.
			go m.healer.Reassert(context.Background())
		}
	}

	m.logger.Printf("[Session] %s logged in as %s", user.Username, user.Role)
	return session
}

// Logout destroys the session and releases the chain credential. Safe to
// call without a session.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.logger.Printf("[Session] %s logged out", m.current.Username)
	}
	m.current = nil
	m.closeChainLocked()
}

func (m *Manager) closeChainLocked() {
	if m.chain != nil {
		if err := m.chain.Close(); err != nil {
			m.logger.Printf("[Session] Error closing chain client: %v", err)
		}
		m.chain = nil
	}
}

// Current returns the active session, if any.
func (m *Manager) Current() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	return m.current, true
}

// CurrentIdentity returns the full identity record of the logged-in user.
func (m *Manager) CurrentIdentity() (models.User, bool) {
	m.mu.Lock()
	session := m.current
	m.mu.Unlock()
	if session == nil {
		return models.User{}, false
	}

	user, found, err := m.lookupUser(session.Username)
	if err != nil || !found {
		return models.User{}, false
	}
	return user, true
}

// Chain hands out the session's chain client, or nil when no credential is
// attached. Implements reconcile.ChainProvider.
func (m *Manager) Chain() blockchain.ChainClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chain
}

// ChangePassword re-authenticates and replaces the stored hash. Legacy
// plaintext records become bcrypt hashes here.
func (m *Manager) ChangePassword(oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyField
	}

	m.mu.Lock()
	session := m.current
	m.mu.Unlock()
	if session == nil {
		return ErrNoSession
	}

	user, found, err := m.lookupUser(session.Username)
	if err != nil {
		return err
	}
	if !found || !passwordMatches(user.Password, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	return m.store.UpdateUser(user)
}

func (m *Manager) lookupUser(username string) (models.User, bool, error) {
	users, err := m.store.GetUsers()
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to read user directory: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

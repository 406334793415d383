package session

import (
	"context"
	"errors"
	"log"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blockchain "github.com/rahulpokala13/PandoraBox/blockchain/client"
	"github.com/rahulpokala13/PandoraBox/internal/models"
	"github.com/rahulpokala13/PandoraBox/ledger"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[TEST] ", log.LstdFlags)
}

func memoryFactory() ChainFactory {
	return func() (blockchain.ChainClient, error) {
		return blockchain.NewMemoryClient(testLogger()), nil
	}
}

func newTestManager(t *testing.T) (*Manager, ledger.Store) {
	t.Helper()
	store, err := ledger.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	return NewManager(store, memoryFactory(), testLogger()), store
}

func TestRegisterAndLogin(t *testing.T) {
	manager, _ := newTestManager(t)

	session, err := manager.Register("alice", "s3cret", models.RoleSeller, "")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, models.RoleSeller, session.Role)
	assert.NotEmpty(t, session.ID)

	manager.Logout()
	_, active := manager.Current()
	assert.False(t, active)

	session, err = manager.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)

	identity, ok := manager.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, models.RoleSeller, identity.Role)
	assert.NotEqual(t, "s3cret", identity.Password, "password must be stored hashed")
}

func TestRegisterValidation(t *testing.T) {
	manager, _ := newTestManager(t)

	t.Run("empty fields", func(t *testing.T) {
		_, err := manager.Register("", "pw", models.RoleSeller, "")
		assert.ErrorIs(t, err, ErrEmptyField)
		_, err = manager.Register("bob", "", models.RoleSeller, "")
		assert.ErrorIs(t, err, ErrEmptyField)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := manager.Register("bob", "pw", models.Role("admin"), "")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("username taken", func(t *testing.T) {
		_, err := manager.Register("alice", "pw", models.RoleSeller, "")
		require.NoError(t, err)
		_, err = manager.Register("alice", "other", models.RoleCustomer, "")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})
}

func TestRegisterStoresWalletAddress(t *testing.T) {
	manager, store := newTestManager(t)

	_, err := manager.Register("alice", "pw", models.RoleSeller, "  "+blockchain.DevSignerAddress+"  ")
	require.NoError(t, err)

	identity, ok := manager.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, blockchain.DevSignerAddress, identity.WalletAddress, "wallet address is trimmed and persisted")

	t.Run("wallet address stays optional", func(t *testing.T) {
		_, err := manager.Register("bob", "pw", models.RoleCustomer, "")
		require.NoError(t, err)

		users, err := store.GetUsers()
		require.NoError(t, err)
		for _, u := range users {
			if u.Username == "bob" {
				assert.Empty(t, u.WalletAddress)
			}
		}
	})
}

func TestLoginFailures(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("alice", "s3cret", models.RoleCustomer, "")
	require.NoError(t, err)
	manager.Logout()

	t.Run("wrong password", func(t *testing.T) {
		_, err := manager.Login("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := manager.Login("mallory", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := manager.Login("", "")
		assert.ErrorIs(t, err, ErrEmptyField)
	})
}

func TestLegacyPlaintextPassword(t *testing.T) {
	manager, store := newTestManager(t)

	// A record written by an older revision that stored plaintext.
	require.NoError(t, store.PutUser(models.User{
		Username: "olduser",
		Password: "plaintext-pw",
		Role:     models.RoleCustomer,
	}))

	session, err := manager.Login("olduser", "plaintext-pw")
	require.NoError(t, err)
	assert.Equal(t, "olduser", session.Username)

	t.Run("password change upgrades to a hash", func(t *testing.T) {
		require.NoError(t, manager.ChangePassword("plaintext-pw", "newpw"))

		users, err := store.GetUsers()
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.NotEqual(t, "newpw", users[0].Password)

		manager.Logout()
		_, err = manager.Login("olduser", "newpw")
		assert.NoError(t, err)
	})
}

func TestLoginSurvivesChainFailure(t *testing.T) {
	store, err := ledger.NewFileStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	failing := func() (blockchain.ChainClient, error) {
		return nil, errors.New("provider unreachable")
	}
	manager := NewManager(store, failing, testLogger())

	_, err = manager.Register("alice", "pw", models.RoleSeller, "")
	require.NoError(t, err, "login degrades to chain-disabled, it does not fail")

	assert.Nil(t, manager.Chain(), "no chain client when acquisition failed")
}

type countingHealer struct {
	runs atomic.Int32
}

func (h *countingHealer) Reassert(ctx context.Context) {
	h.runs.Add(1)
}

func TestLoginTriggersHealingPass(t *testing.T) {
	manager, _ := newTestManager(t)
	healer := &countingHealer{}
	manager.SetHealer(healer)

	_, err := manager.Register("alice", "pw", models.RoleSeller, "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return healer.runs.Load() == 1
	}, time.Second, 10*time.Millisecond)

	manager.Logout()
	_, err = manager.Login("alice", "pw")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return healer.runs.Load() == 2
	}, time.Second, 10*time.Millisecond, "each login runs its own healing pass")
}

func TestLogoutReleasesChain(t *testing.T) {
	manager, _ := newTestManager(t)

	_, err := manager.Register("alice", "pw", models.RoleSeller, "")
	require.NoError(t, err)

	chain := manager.Chain()
	require.NotNil(t, chain)

	manager.Logout()
	assert.Nil(t, manager.Chain())

	// The released client no longer accepts calls.
	_, _, err = chain.GetProduct(context.Background(), [32]byte{})
	assert.Error(t, err)

	// Logout again is a no-op.
	manager.Logout()
}

func TestChangePasswordRequiresSession(t *testing.T) {
	manager, _ := newTestManager(t)

	err := manager.ChangePassword("old", "new")
	assert.ErrorIs(t, err, ErrNoSession)
}

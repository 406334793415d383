package ledger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rahulpokala13/PandoraBox/internal/models"
)

const (
	productsFile      = "products.json"
	usersFile         = "users.json"
	verificationsFile = "verifications.json"
)

// FileStore keeps each table as a JSON array in its own file under a single
// directory, mirroring the three named localStorage entries of the browser
// client. Writes rewrite the whole file through a temp-file rename so a
// single table update is atomic; there is no atomicity across tables.
type FileStore struct {
	dir    string
	logger *log.Logger
}

// NewFileStore creates the ledger directory if needed and returns a store
// over it.
func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory '%s': %w", dir, err)
	}
	logger.Printf("[Ledger] Using local ledger at %s", dir)
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) GetProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.readTable(productsFile, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *FileStore) PutProduct(p models.Product) error {
	products, err := s.GetProducts()
	if err != nil {
		return err
	}
	for _, existing := range products {
		if existing.ProductID == p.ProductID {
			return fmt.Errorf("%w: %s", ErrDuplicateProductID, p.ProductID)
		}
	}
	return s.writeTable(productsFile, append(products, p))
}

func (s *FileStore) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := s.readTable(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *FileStore) PutUser(u models.User) error {
	users, err := s.GetUsers()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == u.Username {
			return fmt.Errorf("%w: %s", ErrDuplicateUsername, u.Username)
		}
	}
	return s.writeTable(usersFile, append(users, u))
}

func (s *FileStore) UpdateUser(u models.User) error {
	users, err := s.GetUsers()
	if err != nil {
		return err
	}
	for i, existing := range users {
		if existing.Username == u.Username {
			users[i] = u
			return s.writeTable(usersFile, users)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownUsername, u.Username)
}

func (s *FileStore) AppendVerification(v models.Verification) error {
	var entries []models.Verification
	if err := s.readTable(verificationsFile, &entries); err != nil {
		return err
	}
	return s.writeTable(verificationsFile, append(entries, v))
}

func (s *FileStore) GetVerificationsFor(productID string) ([]models.Verification, error) {
	var entries []models.Verification
	if err := s.readTable(verificationsFile, &entries); err != nil {
		return nil, err
	}
	var filtered []models.Verification
	for _, e := range entries {
		if e.ProductID == productID {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// readTable loads a whole table file into out. A missing file is an empty
// table, not an error.
func (s *FileStore) readTable(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read ledger table '%s': %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse ledger table '%s': %w", name, err)
	}
	return nil
}

// writeTable rewrites a whole table file via temp file + rename.
func (s *FileStore) writeTable(name string, table any) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize ledger table '%s': %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for ledger table '%s': %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write ledger table '%s': %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for ledger table '%s': %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace ledger table '%s': %w", name, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the key file format.
const StateVersion = 1

// TrustedDeviceKey is the gateway's RSA public key, accepted only after a
// successful identity-verified login.
type TrustedDeviceKey struct {
	// Version is the key file format version.
	Version int `json:"version"`

	// Modulus is the hex-encoded RSA modulus (rsan).
	Modulus string `json:"modulus"`

	// Exponent is the hex-encoded RSA public exponent (rsae).
	Exponent string `json:"exponent"`

	// SavedAt is when the key was last persisted.
	SavedAt time.Time `json:"saved_at"`
}

// KeyStore persists the trusted gateway key. Implementations must be safe
// for concurrent use; concurrent login attempts share a single store and
// the last successful writer wins.
type KeyStore interface {
	// Load returns the stored key, or nil, nil when no key has been
	// persisted yet.
	Load() (*TrustedDeviceKey, error)

	// Save overwrites the stored key.
	Save(key *TrustedDeviceKey) error

	// Clear removes the stored key. Clearing an empty store is not an error.
	Clear() error
}

// FileKeyStore persists the trusted key to a JSON file.
type FileKeyStore struct {
	mu   sync.Mutex
	path string
}

// NewFileKeyStore creates a key store backed by the JSON file at path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Save persists the key to disk.
func (s *FileKeyStore) Save(key *TrustedDeviceKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	key.Version = StateVersion
	if key.SavedAt.IsZero() {
		key.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// Load reads the key from disk.
// Returns nil, nil if the file doesn't exist (no key yet).
func (s *FileKeyStore) Load() (*TrustedDeviceKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	key := &TrustedDeviceKey{}
	if err := json.Unmarshal(data, key); err != nil {
		return nil, err
	}

	return key, nil
}

// Clear removes the key file.
func (s *FileKeyStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryKeyStore holds the trusted key in memory. Useful in tests and for
// embedders that manage their own persistence.
type MemoryKeyStore struct {
	mu  sync.Mutex
	key *TrustedDeviceKey
}

// NewMemoryKeyStore creates an empty in-memory key store.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{}
}

// Save overwrites the stored key.
func (s *MemoryKeyStore) Save(key *TrustedDeviceKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *key
	copied.Version = StateVersion
	if copied.SavedAt.IsZero() {
		copied.SavedAt = time.Now()
	}
	s.key = &copied
	return nil
}

// Load returns the stored key, or nil, nil when empty.
func (s *MemoryKeyStore) Load() (*TrustedDeviceKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil {
		return nil, nil
	}
	copied := *s.key
	return &copied, nil
}

// Clear removes the stored key.
func (s *MemoryKeyStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = nil
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ KeyStore = (*FileKeyStore)(nil)
	_ KeyStore = (*MemoryKeyStore)(nil)
)

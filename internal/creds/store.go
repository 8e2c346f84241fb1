// Package creds stores service credentials in an encrypted file vault,
// unlocked per session with a master password.
package creds

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"deskpilot/pkg/logging"
)

const (
	kdfIterations = 480000
	keyLen        = 32
	saltLen       = 16
)

var (
	// ErrLocked is returned when the vault has not been unlocked this session.
	ErrLocked = errors.New("credential store is locked")
	// ErrBadPassword is returned when the master password fails to decrypt
	// the vault.
	ErrBadPassword = errors.New("incorrect master password")
	// ErrNotInitialized is returned when no vault file exists yet.
	ErrNotInitialized = errors.New("credential store not initialized")
)

// Credential is one service's username/password pair.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// vaultFile is the on-disk shape: KDF parameters in the clear, entries
// sealed with AES-GCM under the derived key.
type vaultFile struct {
	Salt       []byte `json:"salt"`
	Iterations int    `json:"iterations"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Store is a file-backed credential vault. All methods are safe for
// concurrent use; every read re-checks the unlocked state.
type Store struct {
	path string

	mu      sync.Mutex
	key     []byte
	salt    []byte
	entries map[string]Credential
}

// NewStore creates a Store over the vault file at path. The vault stays
// locked until Setup or Unlock.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the per-user vault location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "deskpilot", "credentials.enc"), nil
}

// IsInitialized reports whether a vault file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// IsUnlocked reports whether the vault is open for this session.
func (s *Store) IsUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key != nil
}

// Setup creates a new empty vault protected by master. Fails when a vault
// already exists; Unlock is the path for existing vaults.
func (s *Store) Setup(master string) error {
	if s.IsInitialized() {
		return fmt.Errorf("vault already exists at %s", s.path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}
	s.salt = salt
	s.key = pbkdf2.Key([]byte(master), salt, kdfIterations, keyLen, sha256.New)
	s.entries = map[string]Credential{}
	if err := s.persistLocked(); err != nil {
		s.key, s.salt, s.entries = nil, nil, nil
		return err
	}
	logging.Info("creds", "created credential vault at %s", s.path)
	return nil
}

// Unlock derives the key from master and decrypts the vault into memory.
func (s *Store) Unlock(master string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("reading vault: %w", err)
	}
	var vf vaultFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return fmt.Errorf("vault file is corrupt: %w", err)
	}
	iterations := vf.Iterations
	if iterations == 0 {
		iterations = kdfIterations
	}
	key := pbkdf2.Key([]byte(master), vf.Salt, iterations, keyLen, sha256.New)

	plaintext, err := open(key, vf.Nonce, vf.Ciphertext)
	if err != nil {
		return ErrBadPassword
	}
	entries := map[string]Credential{}
	if err := json.Unmarshal(plaintext, &entries); err != nil {
		return fmt.Errorf("vault contents are corrupt: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.salt = vf.Salt
	s.entries = entries
	return nil
}

// Lock drops the key and decrypted entries from memory.
func (s *Store) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = nil
	s.salt = nil
	s.entries = nil
}

// Get returns the credential stored for service.
func (s *Store) Get(service string) (Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return Credential{}, false, ErrLocked
	}
	c, ok := s.entries[service]
	return c, ok, nil
}

// AddOrUpdate stores the credential for service and persists the vault.
func (s *Store) AddOrUpdate(service string, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return ErrLocked
	}
	s.entries[service] = cred
	return s.persistLocked()
}

// Remove deletes the credential for service and persists the vault.
func (s *Store) Remove(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return ErrLocked
	}
	if _, ok := s.entries[service]; !ok {
		return fmt.Errorf("no credential stored for %q", service)
	}
	delete(s.entries, service)
	return s.persistLocked()
}

// List returns the stored service names, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return nil, ErrLocked
	}
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// persistLocked seals the entries and writes the vault file. Caller holds mu.
func (s *Store) persistLocked() error {
	plaintext, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	nonce, ciphertext, err := seal(s.key, plaintext)
	if err != nil {
		return err
	}
	data, err := json.Marshal(vaultFile{
		Salt:       s.salt,
		Iterations: kdfIterations,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return fmt.Errorf("encoding vault: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating vault dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing vault: %w", err)
	}
	return nil
}

func seal(key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

func open(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/chinmay1088/ktools/crypto"
)

const (
	// SessionDuration in minutes
	SessionDuration = 30

	vaultFile   = "wallet.vault"
	sessionFile = "session.json"
)

// SessionData holds the unlocked credentials between invocations
type SessionData struct {
	Token       string               `json:"token"`
	Credentials map[Kind]Credentials `json:"credentials"`
	Expiration  time.Time            `json:"expiration"`
}

// Manager keeps one credential per chain in a password protected vault
// and caches them in a short lived session file
type Manager struct {
	vaultPath   string
	sessionPath string
	vault       *crypto.Vault
	credentials map[Kind]Credentials
	unlocked    bool
	mu          sync.Mutex

	now func() time.Time
}

// NewManager creates a manager storing its files under dataDir
func NewManager(dataDir string) *Manager {
	return &Manager{
		vaultPath:   filepath.Join(dataDir, vaultFile),
		sessionPath: filepath.Join(dataDir, sessionFile),
		now:         time.Now,
	}
}

// generateSessionToken creates a random session token
func generateSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// createSession creates and saves a new session
func (m *Manager) createSession() error {
	token, err := generateSessionToken()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	session := SessionData{
		Token:       token,
		Credentials: m.credentials,
		Expiration:  m.now().Add(SessionDuration * time.Minute),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.sessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// loadSession loads the session if it exists and is valid
func (m *Manager) loadSession() bool {
	data, err := os.ReadFile(m.sessionPath)
	if err != nil {
		return false
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		// Session file is corrupted, delete it
		os.Remove(m.sessionPath)
		return false
	}

	if m.now().After(session.Expiration) {
		os.Remove(m.sessionPath)
		return false
	}

	m.credentials = session.Credentials
	if m.credentials == nil {
		m.credentials = map[Kind]Credentials{}
	}
	m.unlocked = true
	return true
}

// clearSession removes the current session
func (m *Manager) clearSession() {
	os.Remove(m.sessionPath)
}

func (m *Manager) ensureUnlocked() error {
	if m.unlocked {
		return nil
	}
	if !m.loadSession() {
		return ErrLocked
	}
	return nil
}

// Store saves creds for kind, replacing any previous wallet of that kind.
// An existing vault must open with password.
func (m *Manager) Store(kind Kind, creds Credentials, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	credentials := map[Kind]Credentials{}
	if m.vaultExists() {
		stored, err := m.open(password)
		if err != nil {
			return err
		}
		credentials = stored
	}
	credentials[kind] = creds

	payload, err := json.Marshal(credentials)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	vault, err := crypto.NewVault(payload, password)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(m.vaultPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := m.saveVault(vault); err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}

	m.vault = vault
	m.credentials = credentials
	m.unlocked = true

	if err := m.createSession(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// open decrypts the vault with password
func (m *Manager) open(password string) (map[Kind]Credentials, error) {
	if m.vault == nil {
		vault, err := m.loadVault()
		if err != nil {
			return nil, fmt.Errorf("failed to load vault: %w", err)
		}
		m.vault = vault
	}

	payload, err := m.vault.Decrypt(password)
	if err != nil {
		if errors.Is(err, crypto.ErrDecrypt) {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	credentials := map[Kind]Credentials{}
	if err := json.Unmarshal(payload, &credentials); err != nil {
		return nil, fmt.Errorf("failed to read vault payload: %w", err)
	}
	return credentials, nil
}

// Unlock unlocks the wallet with the provided password
func (m *Manager) Unlock(password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// First try to load existing session
	if m.loadSession() {
		return nil
	}

	credentials, err := m.open(password)
	if err != nil {
		return err
	}

	m.credentials = credentials
	m.unlocked = true

	if err := m.createSession(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Lock locks the wallet and clears sensitive data from memory
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unlocked = false
	m.credentials = nil
	m.clearSession()
}

// IsUnlocked returns whether the wallet is currently unlocked
func (m *Manager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureUnlocked() == nil
}

// Credential returns the stored wallet of kind
func (m *Manager) Credential(kind Kind) (*Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureUnlocked(); err != nil {
		return nil, err
	}
	creds, ok := m.credentials[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCredential, kind)
	}
	return &creds, nil
}

// StoredKinds lists the chains with a stored wallet
func (m *Manager) StoredKinds() ([]Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureUnlocked(); err != nil {
		return nil, err
	}
	kinds := make([]Kind, 0, len(m.credentials))
	for kind := range m.credentials {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds, nil
}

// saveVault saves the vault to disk
func (m *Manager) saveVault(vault *crypto.Vault) error {
	data, err := json.Marshal(vault)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	if err := os.WriteFile(m.vaultPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	return nil
}

// loadVault loads the vault from disk
func (m *Manager) loadVault() (*crypto.Vault, error) {
	data, err := os.ReadFile(m.vaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	var vault crypto.Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vault: %w", err)
	}
	return &vault, nil
}

func (m *Manager) vaultExists() bool {
	_, err := os.Stat(m.vaultPath)
	return err == nil
}

// VaultExists checks if a vault file exists
func (m *Manager) VaultExists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vaultExists()
}

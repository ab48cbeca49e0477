// Package auth provides session storage for the papercheck CLI.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fentz26/papercheck/internal/models"
)

// expiryBuffer treats a token as expired slightly before the server would,
// so an in-flight request does not race the cutoff.
const expiryBuffer = 5 * time.Minute

// Session represents an authenticated session with the checking service.
type Session struct {
	Token     string      `json:"access_token"`
	ExpiresAt int64       `json:"expires_at"`
	User      models.User `json:"user"`
}

// Credentials stores the complete persisted auth state.
type Credentials struct {
	Session   Session `json:"session"`
	CreatedAt int64   `json:"created_at"`
}

// Manager handles loading, saving and clearing the persisted session. It is
// constructed explicitly and injected into whatever needs a token; there is
// no package-level instance.
type Manager struct {
	configDir   string
	credentials *Credentials
	mu          sync.RWMutex
}

// NewManager creates an auth manager rooted at the user config directory and
// loads any previously saved credentials.
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewManagerAt(filepath.Join(homeDir, ".config", "papercheck"))
}

// NewManagerAt is NewManager with an explicit directory, for tests.
func NewManagerAt(configDir string) (*Manager, error) {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{configDir: configDir}

	// Try to load existing credentials
	_ = m.loadCredentials()

	return m, nil
}

// IsAuthenticated checks if there is a session that has not expired.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.credentials == nil {
		return false
	}
	if m.credentials.Session.ExpiresAt == 0 {
		// Server issued no expiry; trust the token until it is refused.
		return m.credentials.Session.Token != ""
	}
	expiresAt := time.Unix(m.credentials.Session.ExpiresAt, 0)
	return time.Now().Before(expiresAt.Add(-expiryBuffer))
}

// Token returns the current session token, or "" when not authenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.credentials == nil {
		return ""
	}
	return m.credentials.Session.Token
}

// User returns the current user if a session is stored.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.credentials == nil {
		return nil
	}
	u := m.credentials.Session.User
	return &u
}

// SaveSession stores a freshly obtained session on disk.
func (m *Manager) SaveSession(s Session) error {
	m.mu.Lock()
	m.credentials = &Credentials{
		Session:   s,
		CreatedAt: time.Now().Unix(),
	}
	m.mu.Unlock()

	return m.saveCredentials()
}

// Logout clears the current session.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.credentials = nil
	m.mu.Unlock()

	if err := os.Remove(m.credentialsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// credentialsPath returns the path to the credentials file.
func (m *Manager) credentialsPath() string {
	return filepath.Join(m.configDir, "credentials.json")
}

// loadCredentials loads credentials from disk.
func (m *Manager) loadCredentials() error {
	data, err := os.ReadFile(m.credentialsPath())
	if err != nil {
		return err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return err
	}

	m.mu.Lock()
	m.credentials = &creds
	m.mu.Unlock()

	return nil
}

// saveCredentials saves credentials to disk.
func (m *Manager) saveCredentials() error {
	m.mu.RLock()
	creds := m.credentials
	m.mu.RUnlock()

	if creds == nil {
		return nil
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.credentialsPath(), data, 0600)
}

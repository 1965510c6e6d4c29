package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"chat-client/internal/roomservice"
)

// Factory builds a room-service connection. Credentials are nil before
// login and carry the stored session on resume.
type Factory func(creds *roomservice.Credentials) roomservice.Service

// Manager owns the session lifecycle: login, register, resume and
// logout. A live service handle exists exactly when credentials are
// present; every logout path, failed or not, ends in a clean logged-out
// state.
type Manager struct {
	store   *Store
	factory Factory

	mu      sync.Mutex
	svc     roomservice.Service
	adapter *roomservice.Adapter
	creds   *roomservice.Credentials
}

// NewManager builds a Manager.
func NewManager(store *Store, factory Factory) *Manager {
	return &Manager{store: store, factory: factory}
}

// LoggedIn reports whether a session is active.
func (m *Manager) LoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds != nil
}

// UserID returns the local user id, empty when logged out.
func (m *Manager) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.creds == nil {
		return ""
	}
	return m.creds.UserID
}

// Adapter returns the adapter for the active session, nil when logged
// out.
func (m *Manager) Adapter() *roomservice.Adapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adapter
}

// Register creates an account. It does not log the user in.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	svc := m.factory(nil)
	defer svc.Close()
	return roomservice.TranslateError("registration", svc.Register(ctx, username, password))
}

// Login authenticates, persists the credentials and starts the sync
// connection.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	svc := m.factory(nil)
	creds, err := svc.Login(ctx, username, password)
	if err != nil {
		_ = svc.Close()
		return roomservice.TranslateError("login", err)
	}
	if err := m.store.Save(creds); err != nil {
		_ = svc.Close()
		return err
	}
	if err := svc.StartSync(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	m.install(svc, creds)
	return nil
}

// Resume restores a persisted session at startup. It returns
// ErrNoCredentials when nothing is stored.
func (m *Manager) Resume(ctx context.Context) error {
	creds, err := m.store.Load()
	if err != nil {
		return err
	}
	svc := m.factory(&creds)
	if err := svc.StartSync(ctx); err != nil {
		_ = svc.Close()
		return err
	}
	m.install(svc, creds)
	return nil
}

func (m *Manager) install(svc roomservice.Service, creds roomservice.Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.svc = svc
	m.creds = &creds
	m.adapter = roomservice.NewAdapter(svc, creds.UserID)
}

// Logout revokes the remote session and clears local state. Local
// teardown happens even when the remote call fails; the remote error is
// still reported.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	svc := m.svc
	m.svc = nil
	m.adapter = nil
	m.creds = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		log.Printf("logout: clearing stored credentials failed: %v", err)
	}
	if svc == nil {
		return roomservice.ErrNotLoggedIn
	}
	remoteErr := svc.Logout(ctx)
	if err := svc.Close(); err != nil && remoteErr == nil {
		remoteErr = err
	}
	return roomservice.TranslateError("logout", remoteErr)
}

// Close releases the session without revoking it remotely.
func (m *Manager) Close() error {
	m.mu.Lock()
	svc := m.svc
	m.svc = nil
	m.adapter = nil
	m.creds = nil
	m.mu.Unlock()

	if svc == nil {
		return nil
	}
	return svc.Close()
}

// IsNoCredentials reports whether err means no stored session exists.
func IsNoCredentials(err error) bool {
	return errors.Is(err, ErrNoCredentials)
}

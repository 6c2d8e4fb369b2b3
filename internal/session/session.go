// Package session provides cookie-backed browser sessions. A session owns
// the visitor's cart and, after login, the encrypted customer access token.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/visaportapp/visaport/internal/cart"
)

const (
	cookieName = "visaport_session"
	ttl        = 24 * time.Hour
)

// Data represents the data stored in a session. CustomerToken is stored
// encrypted; only the account service holds the key to use it.
type Data struct {
	CustomerToken  string      `json:"customer_token,omitempty"`
	TokenExpiresAt string      `json:"token_expires_at,omitempty"`
	CustomerEmail  string      `json:"customer_email,omitempty"`
	Cart           []cart.Line `json:"cart"`
	CreatedAt      int64       `json:"created_at"`
}

// LoggedIn reports whether the session carries a customer token.
func (d *Data) LoggedIn() bool {
	return d != nil && d.CustomerToken != ""
}

// Manager handles session creation, validation, and storage
type Manager struct {
	store  Store
	secure bool
}

// Store defines the interface for session storage
type Store interface {
	Get(ctx context.Context, key string) (*Data, bool)
	Set(ctx context.Context, key string, data *Data, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// NewManager creates a new session manager
func NewManager(store Store, secure bool) *Manager {
	return &Manager{
		store:  store,
		secure: secure,
	}
}

func (m *Manager) Close() error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Close()
}

// CreateSession creates a new session and sets the cookie
func (m *Manager) CreateSession(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context is required")
	}
	if data == nil {
		return "", fmt.Errorf("session data is required")
	}

	sessionID := uuid.NewString()

	sessionData := cloneData(data)
	sessionData.CreatedAt = time.Now().Unix()
	m.store.Set(ctx, sessionID, sessionData, ttl)

	cookie := &http.Cookie{
		Name:     cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	return sessionID, nil
}

// GetSession retrieves the session data from the request
func (m *Manager) GetSession(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, fmt.Errorf("no session cookie found: %w", err)
	}

	if ctx == nil {
		ctx = r.Context()
	}

	data, ok := m.store.Get(ctx, cookie.Value)
	if !ok {
		return nil, fmt.Errorf("session not found or expired")
	}

	if time.Now().Unix()-data.CreatedAt > int64(ttl.Seconds()) {
		m.store.Delete(ctx, cookie.Value)
		return nil, fmt.Errorf("session expired")
	}

	return data, nil
}

// GetOrCreateSession returns the current session, creating an empty one
// (with its cookie) when the request has none. Cart endpoints rely on this
// so first-time visitors can add to cart without an explicit signup step.
func (m *Manager) GetOrCreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Data, error) {
	data, err := m.GetSession(ctx, r)
	if err == nil {
		return data, nil
	}

	data = &Data{Cart: []cart.Line{}}
	if _, err := m.CreateSession(ctx, w, data); err != nil {
		return nil, err
	}
	return data, nil
}

// DestroySession removes the session and clears the cookie
func (m *Manager) DestroySession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if ctx == nil {
		ctx = r.Context()
	}
	if err == nil {
		m.store.Delete(ctx, cookie.Value)
	}

	clearCookie := &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, clearCookie)

	return nil
}

// UpdateSession updates the existing session data without changing the
// session ID. Every cart mutation and login/logout goes through here; a
// session has a single writer at a time, so no locking is needed beyond the
// store's own.
func (m *Manager) UpdateSession(ctx context.Context, r *http.Request, data *Data) error {
	if data == nil {
		return fmt.Errorf("session data is required")
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return fmt.Errorf("no session cookie found: %w", err)
	}

	if ctx == nil {
		ctx = r.Context()
	}

	sessionData := cloneData(data)
	sessionData.CreatedAt = time.Now().Unix()

	m.store.Set(ctx, cookie.Value, sessionData, ttl)

	return nil
}

func cloneData(data *Data) *Data {
	if data == nil {
		return nil
	}
	cloned := *data
	cloned.Cart = make([]cart.Line, len(data.Cart))
	copy(cloned.Cart, data.Cart)
	return &cloned
}

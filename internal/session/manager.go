package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"declutteredWeb/internal/models"
	"declutteredWeb/utils"
)

type ManagerOpts struct {
	Store      Store
	Passphrase string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager keeps sessions server side. The browser only ever sees an
// opaque id; the stored payload (backend tokens included) is encrypted
// at rest.
type Manager struct {
	store      Store
	key        []byte
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(opts ManagerOpts) *Manager {
	return &Manager{
		store:      opts.Store,
		key:        DeriveKey(opts.Passphrase),
		cookieName: opts.CookieName,
		ttl:        opts.TTL,
		secure:     opts.Secure,
	}
}

// Create stores a fresh session and sets its cookie on the response.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	id, err := utils.NewSessionID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}
	sess.ID = id
	sess.CreatedAt = time.Now()

	if err := m.save(ctx, sess); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get loads the session named by the request cookie.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, models.ErrNoSession
	}

	data, err := m.store.Get(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}

	plaintext, err := decrypt(data, m.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt session: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(plaintext, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Update persists changes to an existing session and renews its TTL.
func (m *Manager) Update(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return models.ErrNoSession
	}
	return m.save(ctx, sess)
}

// Destroy deletes the stored session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, cookie.Value); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) save(ctx context.Context, sess *Session) error {
	plaintext, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	data, err := encrypt(plaintext, m.key)
	if err != nil {
		return fmt.Errorf("encrypt session: %w", err)
	}
	return m.store.Save(ctx, sess.ID, data, m.ttl)
}

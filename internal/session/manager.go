package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vehicle-rental-admin/internal/client"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/logger"
	"vehicle-rental-admin/internal/normalize"
	"vehicle-rental-admin/internal/security"
	"vehicle-rental-admin/internal/state"
)

// AuthAPI is the part of the remote API the session needs.
type AuthAPI interface {
	Login(ctx context.Context, userID, password string) (*client.LoginResult, error)
	Validate(ctx context.Context, token string) (*domain.User, error)
	Register(ctx context.Context, userID, password string, role domain.Role) (*domain.User, error)
}

type Manager struct {
	api       AuthAPI
	store     *state.Store
	persister Persister
	now       func() time.Time
	log       *slog.Logger
}

func NewManager(api AuthAPI, store *state.Store, persister Persister) *Manager {
	return &Manager{
		api:       api,
		store:     store,
		persister: persister,
		now:       time.Now,
		log:       logger.WithService("session"),
	}
}

// Login authenticates and installs the session. On failure the container's
// auth fields stay as they were.
func (m *Manager) Login(ctx context.Context, userID, password string) (*domain.User, error) {
	if userID == "" || password == "" {
		return nil, &client.ValidationError{Field: "userId", Message: "User ID and password are required"}
	}
	res, err := m.api.Login(ctx, userID, password)
	if err != nil {
		m.log.Warn("Login failed", "user_id", userID, "error", err)
		return nil, err
	}
	m.store.Dispatch(state.SetAuth{Token: res.Token, User: res.User})
	m.log.Info("Logged in", "user_id", res.User.UserID, "role", res.User.Role, "token", logger.TokenPrefix(res.Token))
	return res.User, nil
}

// Register creates a pending account. It does not log the new user in.
func (m *Manager) Register(ctx context.Context, userID, password string, role domain.Role) (*domain.User, error) {
	if userID == "" || password == "" {
		return nil, &client.ValidationError{Field: "userId", Message: "User ID and password are required"}
	}
	u, err := m.api.Register(ctx, userID, password, role)
	if err != nil {
		m.log.Warn("Registration failed", "user_id", userID, "error", err)
		return nil, err
	}
	m.log.Info("Registered", "user_id", u.UserID, "role", u.Role, "status", u.Status)
	return u, nil
}

// Restore revives a persisted session after the server confirms its token.
// Any failure erases the persisted record and reports no session.
func (m *Manager) Restore(ctx context.Context) (*domain.User, bool) {
	rec, err := m.persister.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return nil, false
	}
	if err != nil {
		m.log.Warn("Persisted session unreadable", "error", err)
		m.discard(ctx)
		return nil, false
	}
	if rec.Token == "" || rec.User == nil {
		m.discard(ctx)
		return nil, false
	}
	if security.Expired(rec.Token, m.now()) {
		m.log.Info("Persisted token expired", "token", logger.TokenPrefix(rec.Token))
		m.discard(ctx)
		return nil, false
	}

	user, err := m.api.Validate(ctx, rec.Token)
	if err != nil {
		m.log.Warn("Session revalidation failed", "token", logger.TokenPrefix(rec.Token), "error", err)
		m.discard(ctx)
		return nil, false
	}
	if user == nil {
		user = normalize.NormalizeUser(rec.User)
	}

	m.store.Dispatch(state.SetAuth{Token: rec.Token, User: user})
	m.log.Info("Session restored", "user_id", user.UserID, "role", user.Role)
	return user, true
}

// Logout clears the identity and discards every collection with it.
func (m *Manager) Logout() {
	m.store.Dispatch(state.Logout{})
	m.store.Reset()
	m.log.Info("Logged out")
}

// Attach keeps the persisted record in step with the container: written when
// token and user are both present, erased otherwise. Only changes to the
// auth fields touch the persister.
func (m *Manager) Attach(ctx context.Context) (detach func()) {
	return m.store.Subscribe(func(prev, next state.State) {
		if prev.AuthToken == next.AuthToken && prev.CurrentUser == next.CurrentUser {
			return
		}
		if next.Authenticated() {
			rec := &Record{Token: next.AuthToken, User: next.CurrentUser}
			if err := m.persister.Save(ctx, rec); err != nil {
				m.log.Warn("Persisting session failed", "error", err)
			}
			return
		}
		m.discard(ctx)
	})
}

func (m *Manager) discard(ctx context.Context) {
	if err := m.persister.Clear(ctx); err != nil {
		m.log.Warn("Clearing persisted session failed", "error", err)
	}
}

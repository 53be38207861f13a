// Package session owns the authenticated identity of one client: login,
// registration, startup restore with server revalidation, logout, and the
// durable {token, user} record behind them.
package session

import (
	"context"
	"errors"

	"vehicle-rental-admin/internal/domain"
)

// ErrNoSession is returned by Load when nothing is persisted.
var ErrNoSession = errors.New("no persisted session")

// Record is the one persisted session entry.
type Record struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Persister stores at most one Record.
type Persister interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Clear(ctx context.Context) error
}

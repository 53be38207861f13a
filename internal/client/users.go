package client

import (
	"context"
	"errors"
	"fmt"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/normalize"
)

// ErrInvalidSession is returned by Validate when the server rejects the token.
var ErrInvalidSession = errors.New("session is no longer valid")

// LoginResult is the body of a successful login. User is normalized.
type LoginResult struct {
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

type validateResult struct {
	Valid bool         `json:"valid"`
	User  *domain.User `json:"user"`
}

type credentials struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type registration struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserStats are the admin's user counters.
type UserStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	PendingApprovals int64 `json:"pendingApprovals"`
	ActiveUsers      int64 `json:"activeUsers"`
	BranchAdmins     int64 `json:"branchAdmins"`
	Customers        int64 `json:"customers"`
}

func (c *Client) Login(ctx context.Context, userID, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, "POST", "/api/auth/login", "", credentials{UserID: userID, Password: password}, &res); err != nil {
		return nil, err
	}
	if res.Token == "" || res.User == nil {
		return nil, &TransportError{Op: "POST /api/auth/login", Err: errors.New("response carries no token or user")}
	}
	res.User = normalize.NormalizeUser(res.User)
	return &res, nil
}

// Validate checks a bearer token and returns the user it belongs to.
func (c *Client) Validate(ctx context.Context, token string) (*domain.User, error) {
	var res validateResult
	if err := c.do(ctx, "POST", "/api/auth/validate", token, nil, &res); err != nil {
		return nil, err
	}
	if !res.Valid {
		return nil, ErrInvalidSession
	}
	return normalize.NormalizeUser(res.User), nil
}

// Register creates a pending account. role is sent in the server's form.
func (c *Client) Register(ctx context.Context, userID, password string, role domain.Role) (*domain.User, error) {
	body := registration{UserID: userID, Password: password, Role: normalize.ServerRole(role)}
	var u domain.User
	if err := c.do(ctx, "POST", "/api/users/register", "", body, &u); err != nil {
		return nil, err
	}
	return normalize.NormalizeUser(&u), nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, "GET", "/api/users", token, nil, &users); err != nil {
		return nil, err
	}
	return normalize.NormalizeUsers(users), nil
}

// ListBranchAdmins returns the approved branch admins with their profiles.
func (c *Client) ListBranchAdmins(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, "GET", "/api/users/branch-admins", token, nil, &users); err != nil {
		return nil, err
	}
	return normalize.NormalizeUsers(users), nil
}

func (c *Client) ApproveUser(ctx context.Context, token string, id int64) (*domain.User, error) {
	return c.userTransition(ctx, token, id, "approve")
}

func (c *Client) RejectUser(ctx context.Context, token string, id int64) (*domain.User, error) {
	return c.userTransition(ctx, token, id, "reject")
}

func (c *Client) userTransition(ctx context.Context, token string, id int64, verb string) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/users/%d/%s", id, verb), token, nil, &u); err != nil {
		return nil, err
	}
	return normalize.NormalizeUser(&u), nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/users/%d/profile", id), token, update, &u); err != nil {
		return nil, err
	}
	return normalize.NormalizeUser(&u), nil
}

func (c *Client) UserStats(ctx context.Context, token string) (*UserStats, error) {
	var stats UserStats
	if err := c.do(ctx, "GET", "/api/users/stats", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

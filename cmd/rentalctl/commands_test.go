package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/mockapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer, *mockapi.Server) {
	t.Helper()
	api := mockapi.New("rentalctl-test-secret-0123456789abcdef")
	require.NoError(t, api.Backend().Seed())
	hs := httptest.NewServer(api)
	t.Cleanup(hs.Close)

	cfg := config.Default()
	cfg.API.BaseURL = hs.URL
	cfg.Session.Path = filepath.Join(t.TempDir(), "session.json")

	var out bytes.Buffer
	a, err := newApp(context.Background(), cfg, &out)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a, &out, api
}

// next simulates a new invocation sharing the persisted session.
func next(t *testing.T, a *app) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	b, err := newApp(context.Background(), a.cfg, &out)
	require.NoError(t, err)
	t.Cleanup(b.close)
	return b, &out
}

func TestCommands_LoginInventoryLogout(t *testing.T) {
	ctx := context.Background()
	a, out, _ := newTestApp(t)

	require.NoError(t, runLogin(ctx, a, []string{"-user", mockapi.SeedCustomerLogin, "-password", mockapi.SeedUserPassword}))
	assert.Contains(t, out.String(), "Logged in as Chris Lee (customer)")

	b, out := next(t, a)
	require.NoError(t, runInventory(ctx, b, []string{"-type", "SUV"}))
	assert.Contains(t, out.String(), "Honda CR-V 2024")
	assert.NotContains(t, out.String(), "Toyota Camry 2024")

	c, out := next(t, a)
	require.NoError(t, runLogout(ctx, c, nil))
	assert.Contains(t, out.String(), "Logged out")

	d, _ := next(t, a)
	assert.ErrorIs(t, runWhoami(ctx, d, nil), errNotLoggedIn)
}

func TestCommands_AdminApprovesRegistration(t *testing.T) {
	ctx := context.Background()
	a, out, api := newTestApp(t)

	require.NoError(t, runRegister(ctx, a, []string{"-user", "bob", "-password", "x"}))
	assert.Contains(t, out.String(), "status pending")
	bob, err := api.Backend().UserByLogin("bob")
	require.NoError(t, err)

	require.NoError(t, runLogin(ctx, a, []string{"-user", mockapi.SeedAdminLogin, "-password", mockapi.SeedAdminPassword}))

	b, out := next(t, a)
	require.NoError(t, runPending(ctx, b, nil))
	assert.Contains(t, out.String(), "bob")

	c, out := next(t, a)
	require.NoError(t, runApprove(ctx, c, []string{"-kind", "user", "-id", strconv.FormatInt(bob.ID, 10)}))
	assert.Contains(t, out.String(), "User bob is approved")

	d, _ := next(t, a)
	assert.Error(t, runApprove(ctx, d, []string{"-kind", "booking", "-id", "1"}))
}

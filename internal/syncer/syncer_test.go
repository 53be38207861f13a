package syncer

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"vehicle-rental-admin/internal/client"
	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/mockapi"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "syncer-test-secret-0123456789abcdef"

// fastPeriods polls every second, the shortest period the scheduler accepts.
var fastPeriods = config.SyncConfig{
	AdminUsersPeriod:   time.Second,
	AdminCatalogPeriod: time.Second,
	BranchPeriod:       time.Second,
	CustomerPeriod:     time.Second,
}

type fixture struct {
	api    *mockapi.Server
	client *client.Client
	store  *state.Store
	sched  *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := mockapi.New(testSecret)
	require.NoError(t, api.Backend().Seed())
	hs := httptest.NewServer(api)
	t.Cleanup(hs.Close)

	sched := scheduler.NewScheduler(0)
	sched.Start()
	t.Cleanup(sched.Stop)

	return &fixture{api: api, client: client.New(hs.URL), store: state.NewStore(), sched: sched}
}

// login authenticates into the fixture's store and returns the token.
func (f *fixture) login(t *testing.T, userID, password string) string {
	t.Helper()
	res, err := f.client.Login(context.Background(), userID, password)
	require.NoError(t, err)
	f.store.Dispatch(state.SetAuth{Token: res.Token, User: res.User})
	return res.Token
}

// token logs in on the side without touching the fixture's store.
func (f *fixture) token(t *testing.T, userID, password string) *client.LoginResult {
	t.Helper()
	res, err := f.client.Login(context.Background(), userID, password)
	require.NoError(t, err)
	return res
}

func vehicleNamed(t *testing.T, s state.State, name string) domain.Vehicle {
	t.Helper()
	for _, v := range s.Vehicles {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("vehicle %q not in state", name)
	return domain.Vehicle{}
}

func TestVisibilityFlag(t *testing.T) {
	var f VisibilityFlag
	assert.True(t, f.Visible())
	f.Set(false)
	assert.False(t, f.Visible())
	f.Set(true)
	assert.True(t, f.Visible())
	assert.True(t, AlwaysVisible{}.Visible())
}

func TestController_StartRequiresMatchingSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := NewAdminController(f.client, f.store, f.sched, fastPeriods)

	assert.ErrorIs(t, admin.Start(ctx), ErrNotAuthenticated)

	f.login(t, mockapi.SeedCustomerLogin, mockapi.SeedUserPassword)
	assert.ErrorIs(t, admin.Start(ctx), ErrWrongRole)
	assert.Zero(t, f.sched.Len())
}

func TestController_StartTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, mockapi.SeedCustomerLogin, mockapi.SeedUserPassword)

	c := NewCustomerController(f.client, f.store, f.sched, fastPeriods)
	require.NoError(t, c.Start(ctx))
	assert.ErrorIs(t, c.Start(ctx), ErrAlreadyStarted)
	c.Stop()
	assert.Zero(t, f.sched.Len())
}

func TestFetcher_CollapsesOverlappingRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, mockapi.SeedAdminLogin, mockapi.SeedAdminPassword)
	c := NewAdminController(f.client, f.store, f.sched, fastPeriods)

	f.api.Delay("GET /api/vehicles", 300*time.Millisecond)
	done := make(chan error, 2)
	for range 2 {
		go func() { done <- c.RefreshVehicles(ctx) }()
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	assert.Equal(t, 1, f.api.Hits("GET /api/vehicles"))
	assert.Len(t, f.store.State().Vehicles, 4)
}

func TestFetcher_FailureKeepsHeldCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, mockapi.SeedAdminLogin, mockapi.SeedAdminPassword)
	c := NewAdminController(f.client, f.store, f.sched, fastPeriods)
	require.NoError(t, c.Mount(ctx))
	before := f.store.State().Users

	f.api.Fail("GET /api/users", 503, "unavailable")
	err := c.RefreshUsers(ctx)
	assert.True(t, client.IsStatus(err, 503))
	assert.Equal(t, before, f.store.State().Users)
}

package syncer

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"vehicle-rental-admin/internal/client"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/mockapi"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmin(t *testing.T, opts ...Option) (*fixture, *AdminController) {
	t.Helper()
	f := newFixture(t)
	f.login(t, mockapi.SeedAdminLogin, mockapi.SeedAdminPassword)
	return f, NewAdminController(f.client, f.store, f.sched, fastPeriods, opts...)
}

func TestAdminController_Mount(t *testing.T) {
	f, c := newAdmin(t)
	require.NoError(t, c.Mount(context.Background()))

	s := f.store.State()
	assert.Len(t, s.Users, 3)
	assert.Len(t, s.Vehicles, 4)
	assert.Empty(t, s.VehicleRequests)
	assert.Equal(t, domain.RoleBranchAdmin, s.Users[1].Role)
}

func TestAdminController_UserDecisions(t *testing.T) {
	f, c := newAdmin(t)
	ctx := context.Background()
	bob, err := f.client.Register(ctx, "bob", "x", domain.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, c.Mount(ctx))

	t.Run("Approve", func(t *testing.T) {
		u, err := c.ApproveUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.UserStatusApproved, u.Status)

		held, ok := f.store.State().User(bob.ID)
		require.True(t, ok)
		assert.Equal(t, domain.UserStatusApproved, held.Status)
	})

	t.Run("Terminal status is refused and state untouched", func(t *testing.T) {
		before := f.store.State().Users
		_, err := c.RejectUser(ctx, bob.ID)
		assert.True(t, client.IsStatus(err, http.StatusBadRequest))
		assert.NotEmpty(t, client.UserMessage(err, "Request failed"))
		assert.Equal(t, before, f.store.State().Users)
	})
}

func TestAdminController_SaveVehicle(t *testing.T) {
	f, c := newAdmin(t)
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	created, err := c.SaveVehicle(ctx, 0, domain.VehicleInput{Name: "Kia Rio", Type: "Hatchback", PricePerDay: 40, TotalStock: 6})
	require.NoError(t, err)
	s := f.store.State()
	require.Len(t, s.Vehicles, 5)
	assert.Equal(t, created.ID, s.Vehicles[4].ID)
	assert.Equal(t, 6, s.Vehicles[4].Availability)

	in := created.Input()
	in.PricePerDay = 45
	_, err = c.SaveVehicle(ctx, created.ID, in)
	require.NoError(t, err)
	v, _ := f.store.State().Vehicle(created.ID)
	assert.Equal(t, 45.0, v.PricePerDay)

	t.Run("Invalid input never reaches the server", func(t *testing.T) {
		over := 9
		_, err := c.SaveVehicle(ctx, created.ID, domain.VehicleInput{Name: "Kia Rio", TotalStock: 6, Availability: &over})
		var valErr *client.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "availability", valErr.Field)

		_, err = c.SaveVehicle(ctx, 0, domain.VehicleInput{})
		assert.ErrorAs(t, err, &valErr)
		assert.Equal(t, 1, f.api.Hits("POST /api/vehicles"))
	})
}

func TestAdminController_RequestDecisions(t *testing.T) {
	f, c := newAdmin(t)
	ctx := context.Background()
	branch := f.token(t, mockapi.SeedBranchLogin, mockapi.SeedUserPassword)

	require.NoError(t, c.Mount(ctx))
	camry := vehicleNamed(t, f.store.State(), "Toyota Camry 2024")
	require.Equal(t, 8, camry.Availability)

	r, err := f.client.CreateRequest(ctx, branch.Token, domain.VehicleRequestInput{BranchID: branch.User.ID, VehicleID: camry.ID, RequestedQuantity: 3})
	require.NoError(t, err)
	require.NoError(t, c.RefreshRequests(ctx))

	t.Run("Partial approval refetches vehicles", func(t *testing.T) {
		vehicleReads := f.api.Hits("GET /api/vehicles")
		qty := 2
		got, err := c.ApproveRequest(ctx, r.ID, &qty, "two for now")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPartiallyApproved, got.Status)

		s := f.store.State()
		held, _ := s.VehicleRequest(r.ID)
		assert.Equal(t, domain.RequestStatusPartiallyApproved, held.Status)
		assert.Equal(t, 6, vehicleNamed(t, s, "Toyota Camry 2024").Availability)
		assert.Equal(t, vehicleReads+1, f.api.Hits("GET /api/vehicles"))
	})

	t.Run("Already decided", func(t *testing.T) {
		_, err := c.RejectRequest(ctx, r.ID, "late")
		assert.True(t, client.IsStatus(err, http.StatusBadRequest))
		held, _ := f.store.State().VehicleRequest(r.ID)
		assert.Equal(t, domain.RequestStatusPartiallyApproved, held.Status)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		qty := -1
		_, err := c.ApproveRequest(ctx, r.ID, &qty, "")
		var valErr *client.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})
}

func TestAdminController_Polling(t *testing.T) {
	t.Run("Refreshes while visible", func(t *testing.T) {
		f, c := newAdmin(t)
		require.NoError(t, c.Start(context.Background()))
		defer c.Stop()

		assert.Equal(t, 1, f.api.Hits("GET /api/users"))
		assert.Eventually(t, func() bool { return f.api.Hits("GET /api/users") >= 2 }, 3*time.Second, 50*time.Millisecond)
		assert.Eventually(t, func() bool { return f.api.Hits("GET /api/requests") >= 2 }, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("Skips ticks while hidden", func(t *testing.T) {
		var visible VisibilityFlag
		visible.Set(false)
		f, c := newAdmin(t, WithVisibility(&visible))
		require.NoError(t, c.Start(context.Background()))
		defer c.Stop()

		time.Sleep(2200 * time.Millisecond)
		assert.Equal(t, 1, f.api.Hits("GET /api/users"))

		visible.Set(true)
		assert.Eventually(t, func() bool { return f.api.Hits("GET /api/users") >= 2 }, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("Stop cancels future ticks", func(t *testing.T) {
		f, c := newAdmin(t)
		require.NoError(t, c.Start(context.Background()))
		c.Stop()

		time.Sleep(1500 * time.Millisecond)
		assert.Equal(t, 1, f.api.Hits("GET /api/users"))
	})

	t.Run("Mount failure does not stop polling", func(t *testing.T) {
		f := newFixture(t)
		f.login(t, mockapi.SeedAdminLogin, mockapi.SeedAdminPassword)
		f.api.Fail("GET /api/users", http.StatusServiceUnavailable, "warming up")
		c := NewAdminController(f.client, f.store, f.sched, fastPeriods)
		require.NoError(t, c.Start(context.Background()))
		defer c.Stop()

		assert.Empty(t, f.store.State().Users)
		assert.Len(t, f.store.State().Vehicles, 4)

		f.api.Heal("GET /api/users")
		assert.Eventually(t, func() bool { return len(f.store.State().Users) == 3 }, 3*time.Second, 50*time.Millisecond)
	})
}

// slowCatalog is an AdminAPI whose first vehicle read snapshots availability
// and then blocks until released.
type slowCatalog struct {
	AdminAPI

	mu           sync.Mutex
	availability int
	reads        int
	entered      chan struct{}
	release      chan struct{}
}

func (a *slowCatalog) ListVehicles(ctx context.Context, token string) ([]domain.Vehicle, error) {
	a.mu.Lock()
	a.reads++
	first, snapshot := a.reads == 1, a.availability
	a.mu.Unlock()
	if first {
		close(a.entered)
		<-a.release
	}
	return []domain.Vehicle{{ID: 1, Name: "Camry", Availability: snapshot, TotalStock: 10}}, nil
}

func (a *slowCatalog) ApproveRequest(ctx context.Context, token string, id int64, d domain.RequestDecision) (*domain.VehicleRequest, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.availability -= *d.ApprovedQuantity
	return &domain.VehicleRequest{ID: id, VehicleID: 1, RequestedQuantity: *d.ApprovedQuantity,
		ApprovedQuantity: d.ApprovedQuantity, Status: domain.RequestStatusApproved}, nil
}

func TestAdminController_RefetchAfterDecisionIgnoresEarlierFetch(t *testing.T) {
	api := &slowCatalog{availability: 10, entered: make(chan struct{}), release: make(chan struct{})}
	store := state.NewStore()
	store.Dispatch(state.SetAuth{Token: "token", User: &domain.User{ID: 1, UserID: "admin", Role: domain.RoleAdmin}})
	store.Dispatch(state.SetVehicles{Vehicles: []domain.Vehicle{{ID: 1, Name: "Camry", Availability: 10, TotalStock: 10}}})
	c := NewAdminController(api, store, scheduler.NewScheduler(0), fastPeriods)
	ctx := context.Background()

	earlier := make(chan error, 1)
	go func() { earlier <- c.RefreshVehicles(ctx) }()
	<-api.entered

	qty := 2
	_, err := c.ApproveRequest(ctx, 5, &qty, "")
	require.NoError(t, err)
	assert.Equal(t, 8, store.State().Vehicles[0].Availability)

	close(api.release)
	require.NoError(t, <-earlier)

	assert.Equal(t, 8, store.State().Vehicles[0].Availability)
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 2, api.reads)
}

package syncer

import (
	"context"

	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/state"
)

// AdminController feeds the central admin dashboard: the user approval
// queue, the vehicle catalog and the branches' stock requests.
type AdminController struct {
	*controller
	api     AdminAPI
	periods config.SyncConfig
}

func NewAdminController(api AdminAPI, store *state.Store, sched *scheduler.Scheduler, periods config.SyncConfig, opts ...Option) *AdminController {
	return &AdminController{
		controller: newController(domain.RoleAdmin, store, sched, opts),
		api:        api,
		periods:    periods,
	}
}

// Start loads the dashboard and begins polling: users on the users period,
// vehicles and requests on the catalog period.
func (c *AdminController) Start(ctx context.Context) error {
	return c.start(ctx, c.Mount, map[string]poll{
		"users": {period: c.periods.AdminUsersPeriod, refresh: c.RefreshUsers},
		"catalog": {period: c.periods.AdminCatalogPeriod, refresh: func(ctx context.Context) error {
			return c.loadAll(ctx, map[string]loadFunc{
				collectionVehicles: c.loadVehicles,
				collectionRequests: c.loadRequests,
			})
		}},
	})
}

func (c *AdminController) Stop() { c.stop() }

// Mount fetches users, vehicles and vehicle requests concurrently.
func (c *AdminController) Mount(ctx context.Context) error {
	return c.loadAll(ctx, map[string]loadFunc{
		collectionUsers:    c.loadUsers,
		collectionVehicles: c.loadVehicles,
		collectionRequests: c.loadRequests,
	})
}

func (c *AdminController) RefreshUsers(ctx context.Context) error {
	return c.fetch.refresh(ctx, collectionUsers, c.loadUsers)
}

func (c *AdminController) RefreshVehicles(ctx context.Context) error {
	return c.fetch.refresh(ctx, collectionVehicles, c.loadVehicles)
}

func (c *AdminController) RefreshRequests(ctx context.Context) error {
	return c.fetch.refresh(ctx, collectionRequests, c.loadRequests)
}

func (c *AdminController) loadUsers(ctx context.Context) (state.Action, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	users, err := c.api.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	return state.SetUsers{Users: users}, nil
}

func (c *AdminController) loadVehicles(ctx context.Context) (state.Action, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	vehicles, err := c.api.ListVehicles(ctx, token)
	if err != nil {
		return nil, err
	}
	return state.SetVehicles{Vehicles: vehicles}, nil
}

func (c *AdminController) loadRequests(ctx context.Context) (state.Action, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	requests, err := c.api.ListRequests(ctx, token)
	if err != nil {
		return nil, err
	}
	return state.SetVehicleRequests{Requests: requests}, nil
}

// ApproveUser moves a pending user to approved.
func (c *AdminController) ApproveUser(ctx context.Context, id int64) (*domain.User, error) {
	return c.decideUser(ctx, "approve-user", id, c.api.ApproveUser)
}

// RejectUser moves a pending user to rejected.
func (c *AdminController) RejectUser(ctx context.Context, id int64) (*domain.User, error) {
	return c.decideUser(ctx, "reject-user", id, c.api.RejectUser)
}

func (c *AdminController) decideUser(ctx context.Context, op string, id int64,
	call func(context.Context, string, int64) (*domain.User, error)) (*domain.User, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	u, err := call(ctx, token, id)
	if err != nil {
		return nil, c.mutated(op, err, "user_id", id)
	}
	c.store.Dispatch(state.UpdateUser{User: *u})
	c.log.Info("User decided", "operation", op, "user_id", u.ID, "status", u.Status)
	return u, nil
}

// SaveVehicle creates the vehicle when id is zero and updates it otherwise.
func (c *AdminController) SaveVehicle(ctx context.Context, id int64, in domain.VehicleInput) (*domain.Vehicle, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, validation("name", "Vehicle name is required")
	}
	if in.TotalStock < 0 || in.PricePerDay < 0 {
		return nil, validation("totalStock", "Price and stock must not be negative")
	}
	if in.Availability != nil && (*in.Availability < 0 || *in.Availability > in.TotalStock) {
		return nil, validation("availability", "Availability must be between 0 and total stock")
	}

	if id == 0 {
		v, err := c.api.CreateVehicle(ctx, token, in)
		if err != nil {
			return nil, c.mutated("create-vehicle", err)
		}
		c.store.Dispatch(state.AddVehicle{Vehicle: *v})
		return v, nil
	}

	v, err := c.api.UpdateVehicle(ctx, token, id, in)
	if err != nil {
		return nil, c.mutated("update-vehicle", err, "vehicle_id", id)
	}
	c.store.Dispatch(state.UpdateVehicle{Vehicle: *v})
	return v, nil
}

// ApproveRequest grants a stock request. A nil quantity grants everything
// requested; a lower one makes the approval partial. The vehicle catalog is
// refetched afterwards so availability comes from the server.
func (c *AdminController) ApproveRequest(ctx context.Context, id int64, quantity *int, notes string) (*domain.VehicleRequest, error) {
	if quantity != nil && *quantity < 0 {
		return nil, validation("approvedQuantity", "Approved quantity must not be negative")
	}
	return c.decideRequest(ctx, "approve-request", id, func(ctx context.Context, token string) (*domain.VehicleRequest, error) {
		return c.api.ApproveRequest(ctx, token, id, domain.RequestDecision{ApprovedQuantity: quantity, AdminNotes: notes})
	})
}

func (c *AdminController) RejectRequest(ctx context.Context, id int64, notes string) (*domain.VehicleRequest, error) {
	return c.decideRequest(ctx, "reject-request", id, func(ctx context.Context, token string) (*domain.VehicleRequest, error) {
		return c.api.RejectRequest(ctx, token, id, notes)
	})
}

func (c *AdminController) decideRequest(ctx context.Context, op string, id int64,
	call func(context.Context, string) (*domain.VehicleRequest, error)) (*domain.VehicleRequest, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	r, err := call(ctx, token)
	if err != nil {
		return nil, c.mutated(op, err, "request_id", id)
	}
	c.store.Dispatch(state.UpdateVehicleRequest{Request: *r})
	c.log.Info("Stock request decided", "operation", op, "request_id", r.ID, "status", r.Status, "granted", r.Granted())
	_ = c.fetch.reload(ctx, collectionVehicles, c.loadVehicles)
	return r, nil
}

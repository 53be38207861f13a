package syncer

import (
	"context"

	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/state"
)

// BranchController feeds a branch admin's dashboard: bookings at the branch,
// stock requests and the vehicle catalog.
type BranchController struct {
	*controller
	api     BranchAPI
	periods config.SyncConfig
}

func NewBranchController(api BranchAPI, store *state.Store, sched *scheduler.Scheduler, periods config.SyncConfig, opts ...Option) *BranchController {
	return &BranchController{
		controller: newController(domain.RoleBranchAdmin, store, sched, opts),
		api:        api,
		periods:    periods,
	}
}

func (c *BranchController) Start(ctx context.Context) error {
	return c.start(ctx, c.Mount, map[string]poll{
		"dashboard": {period: c.periods.BranchPeriod, refresh: c.Mount},
	})
}

func (c *BranchController) Stop() { c.stop() }

// Mount fetches the branch's bookings, stock requests and vehicles concurrently.
func (c *BranchController) Mount(ctx context.Context) error {
	return c.loadAll(ctx, map[string]loadFunc{
		collectionBookings: c.loadBookings,
		collectionRequests: c.loadRequests,
		collectionVehicles: c.loadVehicles,
	})
}

func (c *BranchController) RefreshVehicles(ctx context.Context) error {
	return c.fetch.refresh(ctx, collectionVehicles, c.loadVehicles)
}

func (c *BranchController) loadBookings(ctx context.Context) (state.Action, error) {
	token, user, err := c.session()
	if err != nil {
		return nil, err
	}
	bookings, err := c.api.ListBranchBookings(ctx, token, user.ID)
	if err != nil {
		return nil, err
	}
	return state.SetBookings{Bookings: bookings}, nil
}

func (c *BranchController) loadRequests(ctx context.Context) (state.Action, error) {
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

func (c *BranchController) loadVehicles(ctx context.Context) (state.Action, error) {
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

// ApproveBooking confirms a booking after checking the server still has a
// unit of the vehicle free.
func (c *BranchController) ApproveBooking(ctx context.Context, bookingID int64, notes string) (*domain.Booking, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	b, ok := c.store.State().Booking(bookingID)
	if !ok {
		return nil, validation("bookingId", "Booking not found")
	}

	v, err := c.api.GetVehicle(ctx, token, b.VehicleID)
	if err != nil {
		return nil, c.mutated("approve-booking", err, "booking_id", bookingID)
	}
	if v.Availability <= 0 {
		return nil, validation("vehicleId", "Vehicle is not available for booking")
	}

	updated, err := c.api.ApproveBooking(ctx, token, bookingID, b.VehicleID, notes)
	if err != nil {
		return nil, c.mutated("approve-booking", err, "booking_id", bookingID)
	}
	return c.bookingDecided(ctx, "approve-booking", updated), nil
}

// RejectBooking declines a booking. The server is asked to hand the unit
// back only when the booking had been approved.
func (c *BranchController) RejectBooking(ctx context.Context, bookingID int64, notes string) (*domain.Booking, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	b, ok := c.store.State().Booking(bookingID)
	if !ok {
		return nil, validation("bookingId", "Booking not found")
	}

	restore := b.Status == domain.BookingStatusApproved
	updated, err := c.api.RejectBooking(ctx, token, bookingID, b.VehicleID, notes, restore)
	if err != nil {
		return nil, c.mutated("reject-booking", err, "booking_id", bookingID)
	}
	return c.bookingDecided(ctx, "reject-booking", updated), nil
}

func (c *BranchController) bookingDecided(ctx context.Context, op string, b *domain.Booking) *domain.Booking {
	c.store.Dispatch(state.UpdateBooking{Booking: *b})
	c.log.Info("Booking decided", "operation", op, "booking_id", b.ID, "status", b.Status)
	_ = c.fetch.reload(ctx, collectionVehicles, c.loadVehicles)
	return b
}

// RequestVehicles asks the central admin for more units of a vehicle.
func (c *BranchController) RequestVehicles(ctx context.Context, vehicleID int64, quantity int) (*domain.VehicleRequest, error) {
	token, user, err := c.session()
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, validation("requestedQuantity", "Quantity must be at least 1")
	}
	v, ok := c.store.State().Vehicle(vehicleID)
	if !ok {
		return nil, validation("vehicleId", "Please select a vehicle")
	}

	in := domain.VehicleRequestInput{
		BranchID:          user.ID,
		BranchName:        branchName(user),
		VehicleID:         v.ID,
		VehicleName:       v.Name,
		RequestedQuantity: quantity,
	}
	r, err := c.api.CreateRequest(ctx, token, in)
	if err != nil {
		return nil, c.mutated("create-request", err, "vehicle_id", vehicleID)
	}
	c.store.Dispatch(state.AddVehicleRequest{Request: *r})
	return r, nil
}

// UpdateProfile saves the branch profile. The server keeps the manager's
// name in its full name field, so it travels under both keys.
func (c *BranchController) UpdateProfile(ctx context.Context, p domain.BranchProfile) (*domain.User, error) {
	token, user, err := c.session()
	if err != nil {
		return nil, err
	}
	if p.BranchName == "" {
		return nil, validation("branchName", "Branch name is required")
	}
	update := domain.ProfileUpdate{
		FullName:    p.ManagerName,
		ManagerName: p.ManagerName,
		BranchName:  p.BranchName,
		BranchCode:  p.BranchCode,
		Address:     p.Address,
		Phone:       p.Phone,
		Email:       p.Email,
	}
	u, err := c.api.UpdateProfile(ctx, token, user.ID, update)
	if err != nil {
		return nil, c.mutated("update-profile", err)
	}
	c.store.Dispatch(state.UpdateUser{User: *u})
	return u, nil
}

func branchName(u *domain.User) string {
	if u.Profile != nil && u.Profile.Branch != nil && u.Profile.Branch.BranchName != "" {
		return u.Profile.Branch.BranchName
	}
	return u.BranchName
}

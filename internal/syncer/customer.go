package syncer

import (
	"context"
	"reflect"
	"time"

	"vehicle-rental-admin/internal/config"
	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/scheduler"
	"vehicle-rental-admin/internal/state"
)

// Branch is a pickup location a customer can book at.
type Branch struct {
	ID      int64
	Name    string
	Code    string
	Address string
}

// CustomerController feeds a customer's dashboard: the bookable inventory
// and the customer's own bookings.
type CustomerController struct {
	*controller
	api     CustomerAPI
	periods config.SyncConfig
}

func NewCustomerController(api CustomerAPI, store *state.Store, sched *scheduler.Scheduler, periods config.SyncConfig, opts ...Option) *CustomerController {
	return &CustomerController{
		controller: newController(domain.RoleCustomer, store, sched, opts),
		api:        api,
		periods:    periods,
	}
}

func (c *CustomerController) Start(ctx context.Context) error {
	return c.start(ctx, c.Mount, map[string]poll{
		"dashboard": {period: c.periods.CustomerPeriod, refresh: c.Mount},
	})
}

func (c *CustomerController) Stop() { c.stop() }

// Mount fetches vehicles and the customer's bookings concurrently. A
// collection identical to the one held is not dispatched.
func (c *CustomerController) Mount(ctx context.Context) error {
	return c.loadAll(ctx, map[string]loadFunc{
		collectionVehicles: c.loadVehicles,
		collectionBookings: c.loadBookings,
	})
}

func (c *CustomerController) loadVehicles(ctx context.Context) (state.Action, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	vehicles, err := c.api.ListVehicles(ctx, token)
	if err != nil {
		return nil, err
	}
	if reflect.DeepEqual(vehicles, c.store.State().Vehicles) {
		return nil, nil
	}
	return state.SetVehicles{Vehicles: vehicles}, nil
}

func (c *CustomerController) loadBookings(ctx context.Context) (state.Action, error) {
	token, user, err := c.session()
	if err != nil {
		return nil, err
	}
	bookings, err := c.api.ListCustomerBookings(ctx, token, user.ID)
	if err != nil {
		return nil, err
	}
	if reflect.DeepEqual(bookings, c.store.State().Bookings) {
		return nil, nil
	}
	return state.SetBookings{Bookings: bookings}, nil
}

// Branches lists the approved branches that have a name and an address.
func (c *CustomerController) Branches(ctx context.Context) ([]Branch, error) {
	token, _, err := c.session()
	if err != nil {
		return nil, err
	}
	admins, err := c.api.ListBranchAdmins(ctx, token)
	if err != nil {
		return nil, c.mutated("list-branches", err)
	}

	var branches []Branch
	for _, u := range admins {
		if u.Status != domain.UserStatusApproved || u.Profile == nil || u.Profile.Branch == nil {
			continue
		}
		p := u.Profile.Branch
		if p.BranchName == "" || p.Address == "" {
			continue
		}
		branches = append(branches, Branch{ID: u.ID, Name: p.BranchName, Code: p.BranchCode, Address: p.Address})
	}
	return branches, nil
}

// Quote is the client-side price of a booking, shown for confirmation. The
// server computes the amount it records.
func (c *CustomerController) Quote(vehicleID int64, start, end string) (float64, error) {
	v, ok := c.store.State().Vehicle(vehicleID)
	if !ok {
		return 0, validation("vehicleId", "Please select a vehicle")
	}
	from, to, err := bookingRange(start, end)
	if err != nil {
		return 0, err
	}
	return domain.BookingTotal(v.PricePerDay, from, to), nil
}

// Book reserves a vehicle at a branch for a date range. The booking starts
// out pending.
func (c *CustomerController) Book(ctx context.Context, vehicleID int64, branch Branch, start, end string) (*domain.Booking, error) {
	token, user, err := c.session()
	if err != nil {
		return nil, err
	}
	if branch.ID == 0 {
		return nil, validation("branchId", "Please select a branch")
	}
	v, ok := c.store.State().Vehicle(vehicleID)
	if !ok {
		return nil, validation("vehicleId", "Please select a vehicle")
	}
	if v.Availability <= 0 {
		return nil, validation("vehicleId", "Vehicle is not available for booking")
	}
	from, to, err := bookingRange(start, end)
	if err != nil {
		return nil, err
	}

	in := domain.BookingInput{
		CustomerID:   user.ID,
		CustomerName: user.DisplayName(),
		VehicleID:    v.ID,
		VehicleName:  v.Name,
		BranchID:     branch.ID,
		BranchName:   branch.Name,
		StartDate:    start,
		EndDate:      end,
		TotalAmount:  domain.BookingTotal(v.PricePerDay, from, to),
		Status:       domain.BookingStatusPending,
	}
	b, err := c.api.CreateBooking(ctx, token, in)
	if err != nil {
		return nil, c.mutated("create-booking", err, "vehicle_id", vehicleID)
	}
	c.store.Dispatch(state.AddBooking{Booking: *b})
	c.log.Info("Booking created", "booking_id", b.ID, "vehicle_id", b.VehicleID, "total", b.TotalAmount)
	return b, nil
}

// UpdateProfile saves the customer profile. The full name is mirrored into
// the name field the customer profile is read from.
func (c *CustomerController) UpdateProfile(ctx context.Context, p domain.CustomerProfile) (*domain.User, error) {
	token, user, err := c.session()
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, validation("fullName", "Full name is required")
	}
	update := domain.ProfileUpdate{
		FullName:      p.Name,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		LicenseNumber: p.LicenseNumber,
	}
	u, err := c.api.UpdateProfile(ctx, token, user.ID, update)
	if err != nil {
		return nil, c.mutated("update-profile", err)
	}
	c.store.Dispatch(state.UpdateUser{User: *u})
	return u, nil
}

func bookingRange(start, end string) (time.Time, time.Time, error) {
	from, err := domain.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, validation("startDate", "Please enter a valid start date")
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, validation("endDate", "Please enter a valid end date")
	}
	if domain.RentalDays(from, to) == 0 {
		return time.Time{}, time.Time{}, validation("endDate", "End date must be after start date")
	}
	return from, to, nil
}

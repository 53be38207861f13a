// Package mockapi is an in-memory stand-in for the rental REST API. It keeps
// the server's business rules that the client depends on: pending-only
// approvals, partial request grants, and booking-driven stock changes.
package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/normalize"

	"golang.org/x/crypto/bcrypt"
)

// Error is a failure with the HTTP status it is served as.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func notFound(what string, id int64) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf("%s not found with id: %d", what, id)}
}

func badRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

var errInvalidCredentials = &Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}

type account struct {
	user         domain.User
	passwordHash []byte
}

// Backend holds the fake server's data. All methods are safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	nextID   int64
	accounts []*account
	vehicles []domain.Vehicle
	requests []domain.VehicleRequest
	bookings []domain.Booking
	now      func() time.Time
	cost     int
}

func NewBackend() *Backend {
	return &Backend{nextID: 1, now: time.Now, cost: bcrypt.MinCost}
}

func (b *Backend) id() int64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Backend) stamp() string {
	return b.now().UTC().Format(time.RFC3339)
}

// AddUser creates an account directly in the given status.
func (b *Backend) AddUser(u domain.User, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return domain.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findAccount(u.UserID) != nil {
		return domain.User{}, badRequest("User ID already exists: %s", u.UserID)
	}
	u.ID = b.id()
	u.CreatedAt = b.stamp()
	u.Profile = nil
	b.accounts = append(b.accounts, &account{user: u, passwordHash: hash})
	return u, nil
}

func (b *Backend) Register(userID, password, role string) (domain.User, error) {
	if userID == "" || password == "" {
		return domain.User{}, badRequest("userId and password are required")
	}
	r := normalize.NormalizeRole(role)
	switch r {
	case domain.RoleAdmin, domain.RoleBranchAdmin, domain.RoleCustomer:
	default:
		return domain.User{}, badRequest("Invalid role: %s", role)
	}
	return b.AddUser(domain.User{UserID: userID, Role: r, Status: domain.UserStatusPending}, password)
}

func (b *Backend) Authenticate(userID, password string) (domain.User, error) {
	b.mu.Lock()
	acc := b.findAccount(userID)
	b.mu.Unlock()
	if acc == nil {
		return domain.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return domain.User{}, errInvalidCredentials
	}
	return b.UserByLogin(userID)
}

func (b *Backend) findAccount(userID string) *account {
	for _, a := range b.accounts {
		if a.user.UserID == userID {
			return a
		}
	}
	return nil
}

func (b *Backend) findAccountByID(id int64) *account {
	for _, a := range b.accounts {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}

func (b *Backend) UserByLogin(userID string) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.findAccount(userID)
	if acc == nil {
		return domain.User{}, &Error{Status: http.StatusNotFound, Message: "User not found: " + userID}
	}
	return acc.user, nil
}

func (b *Backend) Users() []domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a.user)
	}
	return out
}

// BranchAdmins lists approved branch admins.
func (b *Backend) BranchAdmins() []domain.User {
	var out []domain.User
	for _, u := range b.Users() {
		if u.Role == domain.RoleBranchAdmin && u.Status == domain.UserStatusApproved {
			out = append(out, u)
		}
	}
	return out
}

// SetUserStatus approves or rejects a pending user.
func (b *Backend) SetUserStatus(id int64, status domain.UserStatus) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.findAccountByID(id)
	if acc == nil {
		return domain.User{}, notFound("User", id)
	}
	if acc.user.Status != domain.UserStatusPending {
		return domain.User{}, badRequest("User %d is already %s", id, acc.user.Status)
	}
	acc.user.Status = status
	return acc.user, nil
}

func (b *Backend) UpdateProfile(id int64, p domain.ProfileUpdate) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.findAccountByID(id)
	if acc == nil {
		return domain.User{}, notFound("User", id)
	}
	u := &acc.user
	u.FullName = p.FullName
	u.Email = p.Email
	u.Phone = p.Phone
	u.Address = p.Address
	switch u.Role {
	case domain.RoleCustomer:
		u.LicenseNumber = p.LicenseNumber
	case domain.RoleBranchAdmin:
		u.BranchName = p.BranchName
		u.BranchCode = p.BranchCode
		u.ManagerName = p.ManagerName
	}
	return *u, nil
}

// UserStats counts users the way the admin dashboard reports them.
func (b *Backend) UserStats() map[string]int64 {
	stats := map[string]int64{"totalUsers": 0, "pendingApprovals": 0, "activeUsers": 0, "branchAdmins": 0, "customers": 0}
	for _, u := range b.Users() {
		stats["totalUsers"]++
		switch u.Status {
		case domain.UserStatusPending:
			stats["pendingApprovals"]++
		case domain.UserStatusApproved:
			stats["activeUsers"]++
			switch u.Role {
			case domain.RoleBranchAdmin:
				stats["branchAdmins"]++
			case domain.RoleCustomer:
				stats["customers"]++
			}
		}
	}
	return stats
}

func (b *Backend) Vehicles(availableOnly bool) []domain.Vehicle {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !availableOnly {
		return slices.Clone(b.vehicles)
	}
	var out []domain.Vehicle
	for _, v := range b.vehicles {
		if v.Availability > 0 {
			out = append(out, v)
		}
	}
	return out
}

func (b *Backend) Vehicle(id int64) (domain.Vehicle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.vehicleIndex(id)
	if i < 0 {
		return domain.Vehicle{}, notFound("Vehicle", id)
	}
	return b.vehicles[i], nil
}

func (b *Backend) vehicleIndex(id int64) int {
	return slices.IndexFunc(b.vehicles, func(v domain.Vehicle) bool { return v.ID == id })
}

func validateVehicle(in domain.VehicleInput) error {
	if in.Name == "" {
		return badRequest("Vehicle name is required")
	}
	if in.PricePerDay < 0 {
		return badRequest("Price per day must not be negative")
	}
	if in.TotalStock < 0 {
		return badRequest("Total stock must not be negative")
	}
	if in.Availability != nil && (*in.Availability < 0 || *in.Availability > in.TotalStock) {
		return badRequest("Availability must be between 0 and total stock")
	}
	return nil
}

// CreateVehicle stores a vehicle. Without an explicit availability the whole
// stock is available.
func (b *Backend) CreateVehicle(in domain.VehicleInput) (domain.Vehicle, error) {
	if err := validateVehicle(in); err != nil {
		return domain.Vehicle{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v := vehicleFromInput(in)
	v.ID = b.id()
	v.CreatedAt = b.stamp()
	if in.Availability == nil {
		v.Availability = in.TotalStock
	}
	b.vehicles = append(b.vehicles, v)
	return v, nil
}

// UpdateVehicle replaces a vehicle. A missing availability resets it to the
// total stock.
func (b *Backend) UpdateVehicle(id int64, in domain.VehicleInput) (domain.Vehicle, error) {
	if err := validateVehicle(in); err != nil {
		return domain.Vehicle{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.vehicleIndex(id)
	if i < 0 {
		return domain.Vehicle{}, notFound("Vehicle", id)
	}
	v := vehicleFromInput(in)
	v.ID = id
	v.CreatedAt = b.vehicles[i].CreatedAt
	if in.Availability == nil {
		v.Availability = in.TotalStock
	}
	b.vehicles[i] = v
	return v, nil
}

func vehicleFromInput(in domain.VehicleInput) domain.Vehicle {
	v := domain.Vehicle{
		Name:            in.Name,
		Type:            in.Type,
		Brand:           in.Brand,
		Model:           in.Model,
		Year:            in.Year,
		PricePerDay:     in.PricePerDay,
		Features:        slices.Clone(in.Features),
		FuelType:        in.FuelType,
		Transmission:    in.Transmission,
		SeatingCapacity: in.SeatingCapacity,
		Image:           in.Image,
		TotalStock:      in.TotalStock,
	}
	if in.Availability != nil {
		v.Availability = *in.Availability
	}
	return v
}

func (b *Backend) Requests() []domain.VehicleRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

func (b *Backend) CreateRequest(in domain.VehicleRequestInput) (domain.VehicleRequest, error) {
	if in.RequestedQuantity <= 0 {
		return domain.VehicleRequest{}, badRequest("Requested quantity must be positive")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.vehicleIndex(in.VehicleID) < 0 {
		return domain.VehicleRequest{}, notFound("Vehicle", in.VehicleID)
	}
	r := domain.VehicleRequest{
		ID:                b.id(),
		BranchID:          in.BranchID,
		BranchName:        in.BranchName,
		VehicleID:         in.VehicleID,
		VehicleName:       in.VehicleName,
		RequestedQuantity: in.RequestedQuantity,
		Status:            domain.RequestStatusPending,
		RequestDate:       b.stamp(),
	}
	b.requests = append(b.requests, r)
	return r, nil
}

func (b *Backend) requestIndex(id int64) int {
	return slices.IndexFunc(b.requests, func(r domain.VehicleRequest) bool { return r.ID == id })
}

// ApproveRequest grants a pending request. A missing quantity grants the
// full request, zero rejects it and anything lower is a partial approval.
// Granted units are taken from the vehicle's availability.
func (b *Backend) ApproveRequest(id int64, d domain.RequestDecision) (domain.VehicleRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.requestIndex(id)
	if i < 0 {
		return domain.VehicleRequest{}, notFound("Vehicle request", id)
	}
	r := &b.requests[i]
	if r.Status != domain.RequestStatusPending {
		return domain.VehicleRequest{}, badRequest("Vehicle request %d is already %s", id, r.Status)
	}

	granted := r.RequestedQuantity
	if d.ApprovedQuantity != nil {
		granted = *d.ApprovedQuantity
	}
	if granted < 0 || granted > r.RequestedQuantity {
		return domain.VehicleRequest{}, badRequest("Approved quantity must be between 0 and %d", r.RequestedQuantity)
	}

	switch {
	case granted == 0:
		r.Status = domain.RequestStatusRejected
	case granted < r.RequestedQuantity:
		r.Status = domain.RequestStatusPartiallyApproved
	default:
		r.Status = domain.RequestStatusApproved
	}
	r.ApprovedQuantity = &granted
	r.ApprovedDate = b.stamp()
	r.AdminNotes = d.AdminNotes

	// Taking granted units out of availability is this fake's own rule; the
	// production service only records the quantity and status.
	if vi := b.vehicleIndex(r.VehicleID); vi >= 0 && granted > 0 {
		b.vehicles[vi].Availability = max(0, b.vehicles[vi].Availability-granted)
	}
	return *r, nil
}

func (b *Backend) RejectRequest(id int64, notes string) (domain.VehicleRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.requestIndex(id)
	if i < 0 {
		return domain.VehicleRequest{}, notFound("Vehicle request", id)
	}
	r := &b.requests[i]
	if r.Status != domain.RequestStatusPending {
		return domain.VehicleRequest{}, badRequest("Vehicle request %d is already %s", id, r.Status)
	}
	r.Status = domain.RequestStatusRejected
	r.AdminNotes = notes
	return *r, nil
}

// Bookings lists bookings, optionally restricted by a match function.
func (b *Backend) Bookings(match func(domain.Booking) bool) []domain.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.Booking
	for _, bk := range b.bookings {
		if match == nil || match(bk) {
			out = append(out, bk)
		}
	}
	return out
}

var errInvalidDates = badRequest("end date must be after start date")

func (b *Backend) CreateBooking(in domain.BookingInput) (domain.Booking, error) {
	start, err := domain.ParseDate(in.StartDate)
	if err != nil {
		return domain.Booking{}, badRequest("Invalid start date: %s", in.StartDate)
	}
	end, err := domain.ParseDate(in.EndDate)
	if err != nil {
		return domain.Booking{}, badRequest("Invalid end date: %s", in.EndDate)
	}
	if domain.RentalDays(start, end) == 0 {
		return domain.Booking{}, errInvalidDates
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	vi := b.vehicleIndex(in.VehicleID)
	if vi < 0 {
		return domain.Booking{}, notFound("Vehicle", in.VehicleID)
	}
	bk := domain.Booking{
		ID:           b.id(),
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		VehicleID:    in.VehicleID,
		VehicleName:  in.VehicleName,
		BranchID:     in.BranchID,
		BranchName:   in.BranchName,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		TotalAmount:  domain.BookingTotal(b.vehicles[vi].PricePerDay, start, end),
		Status:       domain.BookingStatusPending,
		BookingDate:  b.stamp(),
	}
	b.bookings = append(b.bookings, bk)
	return bk, nil
}

func (b *Backend) bookingIndex(id int64) int {
	return slices.IndexFunc(b.bookings, func(bk domain.Booking) bool { return bk.ID == id })
}

// DecideBooking approves or rejects a booking. With UpdateAvailability an
// approval takes one unit and rejecting an approved booking returns it.
func (b *Backend) DecideBooking(id int64, status domain.BookingStatus, d domain.BookingDecision) (domain.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.bookingIndex(id)
	if i < 0 {
		return domain.Booking{}, notFound("Booking", id)
	}
	bk := &b.bookings[i]
	old := bk.Status
	if old == status {
		return domain.Booking{}, badRequest("Booking %d is already %s", id, old)
	}
	if old == domain.BookingStatusRejected {
		return domain.Booking{}, badRequest("Booking %d is already rejected", id)
	}

	vi := b.vehicleIndex(bk.VehicleID)
	if d.UpdateAvailability && vi >= 0 {
		v := &b.vehicles[vi]
		switch {
		case status == domain.BookingStatusApproved:
			if v.Availability <= 0 {
				return domain.Booking{}, badRequest("Vehicle is not available for booking")
			}
			v.Availability--
		case status == domain.BookingStatusRejected && old == domain.BookingStatusApproved:
			v.Availability = min(v.Availability+1, v.TotalStock)
		}
	}

	bk.Status = status
	bk.BranchAdminNotes = d.BranchAdminNotes
	if status == domain.BookingStatusApproved {
		bk.ApprovedDate = b.stamp()
	}
	return *bk, nil
}

// asError unwraps a backend failure for the HTTP layer.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}

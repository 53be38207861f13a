package syncer

import (
	"context"

	"vehicle-rental-admin/internal/domain"
)

// AdminAPI is the part of the remote API the admin dashboard uses.
type AdminAPI interface {
	ListUsers(ctx context.Context, token string) ([]domain.User, error)
	ApproveUser(ctx context.Context, token string, id int64) (*domain.User, error)
	RejectUser(ctx context.Context, token string, id int64) (*domain.User, error)
	ListVehicles(ctx context.Context, token string) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, token string, in domain.VehicleInput) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, token string, id int64, in domain.VehicleInput) (*domain.Vehicle, error)
	ListRequests(ctx context.Context, token string) ([]domain.VehicleRequest, error)
	ApproveRequest(ctx context.Context, token string, id int64, d domain.RequestDecision) (*domain.VehicleRequest, error)
	RejectRequest(ctx context.Context, token string, id int64, notes string) (*domain.VehicleRequest, error)
}

// BranchAPI is the part of the remote API the branch dashboard uses.
type BranchAPI interface {
	ListBranchBookings(ctx context.Context, token string, branchID int64) ([]domain.Booking, error)
	ApproveBooking(ctx context.Context, token string, id, vehicleID int64, notes string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, token string, id, vehicleID int64, notes string, restore bool) (*domain.Booking, error)
	ListRequests(ctx context.Context, token string) ([]domain.VehicleRequest, error)
	CreateRequest(ctx context.Context, token string, in domain.VehicleRequestInput) (*domain.VehicleRequest, error)
	ListVehicles(ctx context.Context, token string) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, token string, id int64) (*domain.Vehicle, error)
	UpdateProfile(ctx context.Context, token string, id int64, update domain.ProfileUpdate) (*domain.User, error)
}

// CustomerAPI is the part of the remote API the customer dashboard uses.
type CustomerAPI interface {
	ListVehicles(ctx context.Context, token string) ([]domain.Vehicle, error)
	ListCustomerBookings(ctx context.Context, token string, customerID int64) ([]domain.Booking, error)
	ListBranchAdmins(ctx context.Context, token string) ([]domain.User, error)
	CreateBooking(ctx context.Context, token string, in domain.BookingInput) (*domain.Booking, error)
	UpdateProfile(ctx context.Context, token string, id int64, update domain.ProfileUpdate) (*domain.User, error)
}

package state

import "vehicle-rental-admin/internal/domain"

// Action kinds understood by Reduce.
const (
	KindSetAuth              = "set-auth"
	KindLogout               = "logout"
	KindSetUsers             = "set-users"
	KindSetVehicles          = "set-vehicles"
	KindSetVehicleRequests   = "set-vehicle-requests"
	KindSetBookings          = "set-bookings"
	KindUpdateUser           = "update-user"
	KindAddVehicle           = "add-vehicle"
	KindAddVehicleRequest    = "add-vehicle-request"
	KindAddBooking           = "add-booking"
	KindUpdateVehicle        = "update-vehicle"
	KindUpdateVehicleRequest = "update-vehicle-request"
	KindUpdateBooking        = "update-booking"
)

// Action is anything that can be dispatched to a Store. Kinds that Reduce
// does not know leave the state unchanged.
type Action interface {
	Kind() string
}

type SetAuth struct {
	Token string
	User  *domain.User
}

type Logout struct{}

type SetUsers struct{ Users []domain.User }

type SetVehicles struct{ Vehicles []domain.Vehicle }

type SetVehicleRequests struct{ Requests []domain.VehicleRequest }

type SetBookings struct{ Bookings []domain.Booking }

type UpdateUser struct{ User domain.User }

type AddVehicle struct{ Vehicle domain.Vehicle }

type AddVehicleRequest struct{ Request domain.VehicleRequest }

type AddBooking struct{ Booking domain.Booking }

type UpdateVehicle struct{ Vehicle domain.Vehicle }

type UpdateVehicleRequest struct{ Request domain.VehicleRequest }

type UpdateBooking struct{ Booking domain.Booking }

func (SetAuth) Kind() string              { return KindSetAuth }
func (Logout) Kind() string               { return KindLogout }
func (SetUsers) Kind() string             { return KindSetUsers }
func (SetVehicles) Kind() string          { return KindSetVehicles }
func (SetVehicleRequests) Kind() string   { return KindSetVehicleRequests }
func (SetBookings) Kind() string          { return KindSetBookings }
func (UpdateUser) Kind() string           { return KindUpdateUser }
func (AddVehicle) Kind() string           { return KindAddVehicle }
func (AddVehicleRequest) Kind() string    { return KindAddVehicleRequest }
func (AddBooking) Kind() string           { return KindAddBooking }
func (UpdateVehicle) Kind() string        { return KindUpdateVehicle }
func (UpdateVehicleRequest) Kind() string { return KindUpdateVehicleRequest }
func (UpdateBooking) Kind() string        { return KindUpdateBooking }

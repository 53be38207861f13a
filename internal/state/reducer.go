// Package state holds the session's domain state: the pure reducer over the
// six collections, the post-dispatch reconciliation of cross-entity effects,
// and the Store that owns the current value.
package state

import (
	"slices"

	"vehicle-rental-admin/internal/domain"
)

// State is an immutable snapshot. Slices held by a State are never written
// after the State is produced; every change builds new slices.
type State struct {
	CurrentUser     *domain.User
	AuthToken       string
	Users           []domain.User
	Vehicles        []domain.Vehicle
	VehicleRequests []domain.VehicleRequest
	Bookings        []domain.Booking
}

// Authenticated reports whether both token and user are present.
func (s State) Authenticated() bool {
	return s.AuthToken != "" && s.CurrentUser != nil
}

func (s State) Vehicle(id int64) (domain.Vehicle, bool) {
	i := slices.IndexFunc(s.Vehicles, func(v domain.Vehicle) bool { return v.ID == id })
	if i < 0 {
		return domain.Vehicle{}, false
	}
	return s.Vehicles[i], true
}

func (s State) Booking(id int64) (domain.Booking, bool) {
	i := slices.IndexFunc(s.Bookings, func(b domain.Booking) bool { return b.ID == id })
	if i < 0 {
		return domain.Booking{}, false
	}
	return s.Bookings[i], true
}

func (s State) VehicleRequest(id int64) (domain.VehicleRequest, bool) {
	i := slices.IndexFunc(s.VehicleRequests, func(r domain.VehicleRequest) bool { return r.ID == id })
	if i < 0 {
		return domain.VehicleRequest{}, false
	}
	return s.VehicleRequests[i], true
}

func (s State) User(id int64) (domain.User, bool) {
	i := slices.IndexFunc(s.Users, func(u domain.User) bool { return u.ID == id })
	if i < 0 {
		return domain.User{}, false
	}
	return s.Users[i], true
}

// Reduce applies one action to a state. It only replaces, appends and
// merges collection entries; cross-entity effects are left to Reconcile.
// Replace-by-id uses the first matching entry and assumes ids are unique.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SetAuth:
		if a.Token == "" || a.User == nil {
			return s
		}
		u := *a.User
		s.CurrentUser = &u
		s.AuthToken = a.Token
	case Logout:
		s.CurrentUser = nil
		s.AuthToken = ""
	case SetUsers:
		s.Users = slices.Clone(a.Users)
	case SetVehicles:
		s.Vehicles = slices.Clone(a.Vehicles)
	case SetVehicleRequests:
		s.VehicleRequests = slices.Clone(a.Requests)
	case SetBookings:
		s.Bookings = slices.Clone(a.Bookings)
	case UpdateUser:
		s.Users = replaceFirst(s.Users, func(u domain.User) bool { return u.ID == a.User.ID }, a.User)
		if s.CurrentUser != nil && s.CurrentUser.ID == a.User.ID {
			u := a.User
			s.CurrentUser = &u
		}
	case AddVehicle:
		s.Vehicles = appendCopy(s.Vehicles, a.Vehicle)
	case AddVehicleRequest:
		s.VehicleRequests = appendCopy(s.VehicleRequests, a.Request)
	case AddBooking:
		s.Bookings = appendCopy(s.Bookings, a.Booking)
	case UpdateVehicle:
		s.Vehicles = replaceFirst(s.Vehicles, func(v domain.Vehicle) bool { return v.ID == a.Vehicle.ID }, a.Vehicle)
	case UpdateVehicleRequest:
		s.VehicleRequests = replaceFirst(s.VehicleRequests, func(r domain.VehicleRequest) bool { return r.ID == a.Request.ID }, a.Request)
	case UpdateBooking:
		s.Bookings = replaceFirst(s.Bookings, func(b domain.Booking) bool { return b.ID == a.Booking.ID }, a.Booking)
	}
	return s
}

func replaceFirst[T any](items []T, match func(T) bool, with T) []T {
	i := slices.IndexFunc(items, match)
	if i < 0 {
		return items
	}
	out := slices.Clone(items)
	out[i] = with
	return out
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

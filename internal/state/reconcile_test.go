package state

import (
	"testing"

	"vehicle-rental-admin/internal/domain"

	"github.com/stretchr/testify/assert"
)

func bookingState(availability, total int, status domain.BookingStatus) State {
	return State{
		Vehicles: []domain.Vehicle{
			{ID: 1, Availability: availability, TotalStock: total},
			{ID: 2, Availability: 4, TotalStock: 4},
		},
		Bookings: []domain.Booking{{ID: 10, VehicleID: 1, Status: status}},
	}
}

func TestReconcile_BookingApproval(t *testing.T) {
	t.Run("Pending to approved decrements by one", func(t *testing.T) {
		s := apply(State{}, SetVehicles{Vehicles: []domain.Vehicle{{ID: 1, Availability: 3, TotalStock: 5}}})
		s = apply(s, SetBookings{Bookings: []domain.Booking{{ID: 10, VehicleID: 1, Status: domain.BookingStatusPending}}})
		s = apply(s, UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusApproved}})
		assert.Equal(t, 2, s.Vehicles[0].Availability)
	})

	t.Run("Floored at zero", func(t *testing.T) {
		s := apply(bookingState(0, 5, domain.BookingStatusPending),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusApproved}})
		assert.Equal(t, 0, s.Vehicles[0].Availability)
	})

	t.Run("Explicit availability wins", func(t *testing.T) {
		s := apply(bookingState(3, 5, domain.BookingStatusPending),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusApproved, VehicleAvailability: intPtr(7), VehicleTotalStock: intPtr(9)}})
		assert.Equal(t, 7, s.Vehicles[0].Availability)
		assert.Equal(t, 9, s.Vehicles[0].TotalStock)
	})

	t.Run("Already approved is not decremented again", func(t *testing.T) {
		s := apply(bookingState(3, 5, domain.BookingStatusApproved),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusApproved, BranchAdminNotes: "ok"}})
		assert.Equal(t, 3, s.Vehicles[0].Availability)
	})

	t.Run("Unknown prior booking counts as not approved", func(t *testing.T) {
		s := apply(bookingState(3, 5, domain.BookingStatusPending),
			UpdateBooking{Booking: domain.Booking{ID: 99, VehicleID: 1, Status: domain.BookingStatusApproved}})
		assert.Equal(t, 2, s.Vehicles[0].Availability)
	})

	t.Run("Other vehicles untouched", func(t *testing.T) {
		s := apply(bookingState(3, 5, domain.BookingStatusPending),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusApproved}})
		assert.Equal(t, 4, s.Vehicles[1].Availability)
	})
}

func TestReconcile_BookingRejection(t *testing.T) {
	t.Run("Approved to rejected increments by one", func(t *testing.T) {
		s := apply(bookingState(2, 5, domain.BookingStatusApproved),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusRejected}})
		assert.Equal(t, 3, s.Vehicles[0].Availability)
	})

	t.Run("Capped at total stock", func(t *testing.T) {
		s := apply(bookingState(5, 5, domain.BookingStatusApproved),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusRejected}})
		assert.Equal(t, 5, s.Vehicles[0].Availability)
	})

	t.Run("Pending to rejected leaves availability", func(t *testing.T) {
		s := apply(bookingState(2, 5, domain.BookingStatusPending),
			UpdateBooking{Booking: domain.Booking{ID: 10, VehicleID: 1, Status: domain.BookingStatusRejected}})
		assert.Equal(t, 2, s.Vehicles[0].Availability)
	})
}

func TestReconcile_VehicleRequest(t *testing.T) {
	base := State{
		Vehicles:        []domain.Vehicle{{ID: 1, Availability: 10, TotalStock: 20}},
		VehicleRequests: []domain.VehicleRequest{{ID: 5, VehicleID: 1, Status: domain.RequestStatusPending, RequestedQuantity: 3}},
	}

	t.Run("Approved decrements by approved quantity", func(t *testing.T) {
		s := apply(base, UpdateVehicleRequest{Request: domain.VehicleRequest{ID: 5, VehicleID: 1, Status: domain.RequestStatusApproved, ApprovedQuantity: intPtr(2)}})
		assert.Equal(t, 8, s.Vehicles[0].Availability)
		assert.Equal(t, domain.RequestStatusApproved, s.VehicleRequests[0].Status)
	})

	t.Run("Partially approved decrements too", func(t *testing.T) {
		s := apply(base, UpdateVehicleRequest{Request: domain.VehicleRequest{ID: 5, VehicleID: 1, Status: domain.RequestStatusPartiallyApproved, ApprovedQuantity: intPtr(1)}})
		assert.Equal(t, 9, s.Vehicles[0].Availability)
	})

	t.Run("Floored at zero", func(t *testing.T) {
		s := apply(base, UpdateVehicleRequest{Request: domain.VehicleRequest{ID: 5, VehicleID: 1, Status: domain.RequestStatusApproved, ApprovedQuantity: intPtr(15)}})
		assert.Equal(t, 0, s.Vehicles[0].Availability)
	})

	t.Run("Missing quantity decrements nothing", func(t *testing.T) {
		s := apply(base, UpdateVehicleRequest{Request: domain.VehicleRequest{ID: 5, VehicleID: 1, Status: domain.RequestStatusApproved}})
		assert.Equal(t, 10, s.Vehicles[0].Availability)
	})

	t.Run("Rejected leaves availability", func(t *testing.T) {
		s := apply(base, UpdateVehicleRequest{Request: domain.VehicleRequest{ID: 5, VehicleID: 1, Status: domain.RequestStatusRejected}})
		assert.Equal(t, 10, s.Vehicles[0].Availability)
		assert.Equal(t, domain.RequestStatusRejected, s.VehicleRequests[0].Status)
	})
}

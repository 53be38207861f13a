package state

import (
	"slices"

	"vehicle-rental-admin/internal/domain"
)

// Reconcile computes the cross-entity effects of a status-changing action.
// prev is the state before Reduce, next the state Reduce produced.
//
// Availability changes are local guesses: decrements stop at zero and
// increments stop at the vehicle's total stock. The next vehicle refetch
// replaces them with the server's figures.
func Reconcile(prev, next State, action Action) State {
	switch a := action.(type) {
	case UpdateVehicleRequest:
		if !a.Request.IsGranted() {
			return next
		}
		granted := a.Request.Granted()
		next.Vehicles = updateVehicle(next.Vehicles, a.Request.VehicleID, func(v *domain.Vehicle) {
			v.Availability = max(0, v.Availability-granted)
		})
	case UpdateBooking:
		next.Vehicles = updateVehicle(next.Vehicles, a.Booking.VehicleID, func(v *domain.Vehicle) {
			applyBookingTransition(v, previousStatus(prev, a.Booking.ID), a.Booking)
		})
	}
	return next
}

func previousStatus(prev State, bookingID int64) domain.BookingStatus {
	if b, ok := prev.Booking(bookingID); ok {
		return b.Status
	}
	return ""
}

func applyBookingTransition(v *domain.Vehicle, old domain.BookingStatus, b domain.Booking) {
	if b.VehicleTotalStock != nil {
		v.TotalStock = *b.VehicleTotalStock
	}
	if b.VehicleAvailability != nil {
		v.Availability = *b.VehicleAvailability
		return
	}

	newlyApproved := old != domain.BookingStatusApproved && b.Status == domain.BookingStatusApproved
	rejectedFromApproved := old == domain.BookingStatusApproved && b.Status == domain.BookingStatusRejected

	switch {
	case newlyApproved:
		v.Availability = max(0, v.Availability-1)
	case rejectedFromApproved:
		v.Availability = min(v.Availability+1, v.TotalStock)
	}
}

func updateVehicle(vehicles []domain.Vehicle, id int64, fn func(*domain.Vehicle)) []domain.Vehicle {
	i := slices.IndexFunc(vehicles, func(v domain.Vehicle) bool { return v.ID == id })
	if i < 0 {
		return vehicles
	}
	out := slices.Clone(vehicles)
	fn(&out[i])
	return out
}

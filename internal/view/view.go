// Package view holds the pure projections the dashboards render: inventory
// search, status queues, per-role slices of the collections and the
// summary figures. Every function preserves collection order.
package view

import (
	"strings"

	"vehicle-rental-admin/internal/domain"
)

// InventoryFilter narrows the bookable inventory. An empty Query or Type
// matches everything, and a zero MaxPrice means no upper bound.
type InventoryFilter struct {
	Query    string
	MinPrice float64
	MaxPrice float64
	Type     string
}

// DefaultInventoryFilter matches every vehicle priced from 0 to 500 a day.
func DefaultInventoryFilter() InventoryFilter {
	return InventoryFilter{MinPrice: 0, MaxPrice: 500}
}

// Matches reports whether a vehicle passes the filter. Vehicles without
// free units never match.
func (f InventoryFilter) Matches(v domain.Vehicle) bool {
	if v.Availability <= 0 {
		return false
	}
	if v.PricePerDay < f.MinPrice || (f.MaxPrice > 0 && v.PricePerDay > f.MaxPrice) {
		return false
	}
	if f.Type != "" && v.Type != f.Type {
		return false
	}
	if q := strings.ToLower(f.Query); q != "" {
		return strings.Contains(strings.ToLower(v.Name), q) ||
			strings.Contains(strings.ToLower(v.Brand), q) ||
			strings.Contains(strings.ToLower(v.Type), q)
	}
	return true
}

func FilterInventory(vehicles []domain.Vehicle, f InventoryFilter) []domain.Vehicle {
	return filter(vehicles, f.Matches)
}

// VehicleTypes lists the distinct vehicle types in first-seen order.
func VehicleTypes(vehicles []domain.Vehicle) []string {
	seen := make(map[string]bool)
	var types []string
	for _, v := range vehicles {
		if v.Type != "" && !seen[v.Type] {
			seen[v.Type] = true
			types = append(types, v.Type)
		}
	}
	return types
}

func UsersByStatus(users []domain.User, status domain.UserStatus) []domain.User {
	return filter(users, func(u domain.User) bool { return strings.EqualFold(string(u.Status), string(status)) })
}

func RequestsByStatus(requests []domain.VehicleRequest, status domain.RequestStatus) []domain.VehicleRequest {
	return filter(requests, func(r domain.VehicleRequest) bool { return strings.EqualFold(string(r.Status), string(status)) })
}

func BookingsByStatus(bookings []domain.Booking, status domain.BookingStatus) []domain.Booking {
	return filter(bookings, func(b domain.Booking) bool { return strings.EqualFold(string(b.Status), string(status)) })
}

// PendingUsers is the admin's approval queue.
func PendingUsers(users []domain.User) []domain.User {
	return UsersByStatus(users, domain.UserStatusPending)
}

func PendingRequests(requests []domain.VehicleRequest) []domain.VehicleRequest {
	return RequestsByStatus(requests, domain.RequestStatusPending)
}

func PendingBookings(bookings []domain.Booking) []domain.Booking {
	return BookingsByStatus(bookings, domain.BookingStatusPending)
}

// ManagedUsers are the accounts an admin manages: everyone but admins.
func ManagedUsers(users []domain.User) []domain.User {
	return filter(users, func(u domain.User) bool { return u.Role != domain.RoleAdmin })
}

func BranchRequests(requests []domain.VehicleRequest, branchID int64) []domain.VehicleRequest {
	return filter(requests, func(r domain.VehicleRequest) bool { return r.BranchID == branchID })
}

func BranchBookings(bookings []domain.Booking, branchID int64) []domain.Booking {
	return filter(bookings, func(b domain.Booking) bool { return b.BranchID == branchID })
}

func CustomerBookings(bookings []domain.Booking, customerID int64) []domain.Booking {
	return filter(bookings, func(b domain.Booking) bool { return b.CustomerID == customerID })
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

package view

import (
	"testing"

	"vehicle-rental-admin/internal/domain"

	"github.com/stretchr/testify/assert"
)

var inventory = []domain.Vehicle{
	{ID: 1, Name: "Toyota Camry 2024", Brand: "Toyota", Type: "Sedan", PricePerDay: 85, Availability: 8, TotalStock: 10},
	{ID: 2, Name: "Honda CR-V 2024", Brand: "Honda", Type: "SUV", PricePerDay: 120, Availability: 5, TotalStock: 8},
	{ID: 3, Name: "BMW X5 2024", Brand: "BMW", Type: "SUV", PricePerDay: 200, Availability: 3, TotalStock: 5},
	{ID: 4, Name: "Tesla Model 3", Brand: "Tesla", Type: "Electric", PricePerDay: 150, Availability: 0, TotalStock: 4},
	{ID: 5, Name: "Rolls Phantom", Brand: "Rolls-Royce", Type: "Sedan", PricePerDay: 900, Availability: 1, TotalStock: 1},
}

func ids[T any](items []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func vehicleIDs(vs []domain.Vehicle) []int64 {
	return ids(vs, func(v domain.Vehicle) int64 { return v.ID })
}

func TestFilterInventory(t *testing.T) {
	t.Run("Default filter hides sold out and out of range", func(t *testing.T) {
		assert.Equal(t, []int64{1, 2, 3}, vehicleIDs(FilterInventory(inventory, DefaultInventoryFilter())))
	})

	t.Run("Query is case insensitive over name, brand and type", func(t *testing.T) {
		f := DefaultInventoryFilter()
		f.Query = "suv"
		assert.Equal(t, []int64{2, 3}, vehicleIDs(FilterInventory(inventory, f)))
		f.Query = "TOYOTA"
		assert.Equal(t, []int64{1}, vehicleIDs(FilterInventory(inventory, f)))
	})

	t.Run("Price bounds are inclusive", func(t *testing.T) {
		f := InventoryFilter{MinPrice: 120, MaxPrice: 200}
		assert.Equal(t, []int64{2, 3}, vehicleIDs(FilterInventory(inventory, f)))
	})

	t.Run("Zero filter matches every available vehicle", func(t *testing.T) {
		assert.Equal(t, []int64{1, 2, 3, 5}, vehicleIDs(FilterInventory(inventory, InventoryFilter{})))
	})

	t.Run("Type is exact", func(t *testing.T) {
		f := InventoryFilter{MaxPrice: 1000, Type: "Sedan"}
		assert.Equal(t, []int64{1, 5}, vehicleIDs(FilterInventory(inventory, f)))
		f.Type = "sedan"
		assert.Empty(t, FilterInventory(inventory, f))
	})

	t.Run("Sold out never matches", func(t *testing.T) {
		f := InventoryFilter{Query: "tesla", MaxPrice: 1000, Type: "Electric"}
		assert.Empty(t, FilterInventory(inventory, f))
	})

	t.Run("Input is not modified", func(t *testing.T) {
		before := append([]domain.Vehicle(nil), inventory...)
		FilterInventory(inventory, InventoryFilter{Query: "x"})
		assert.Equal(t, before, inventory)
	})
}

func TestVehicleTypes(t *testing.T) {
	assert.Equal(t, []string{"Sedan", "SUV", "Electric"}, VehicleTypes(inventory))
}

func TestStatusQueues(t *testing.T) {
	users := []domain.User{
		{ID: 1, Role: domain.RoleAdmin, Status: domain.UserStatusApproved},
		{ID: 2, Role: domain.RoleCustomer, Status: "PENDING"},
		{ID: 3, Role: domain.RoleBranchAdmin, Status: domain.UserStatusPending},
		{ID: 4, Role: domain.RoleCustomer, Status: domain.UserStatusRejected},
	}
	userIDs := func(us []domain.User) []int64 { return ids(us, func(u domain.User) int64 { return u.ID }) }

	assert.Equal(t, []int64{2, 3}, userIDs(PendingUsers(users)))
	assert.Equal(t, []int64{4}, userIDs(UsersByStatus(users, domain.UserStatusRejected)))
	assert.Equal(t, []int64{2, 3, 4}, userIDs(ManagedUsers(users)))

	requests := []domain.VehicleRequest{
		{ID: 1, BranchID: 2, Status: domain.RequestStatusPending},
		{ID: 2, BranchID: 3, Status: domain.RequestStatusPending},
		{ID: 3, BranchID: 2, Status: domain.RequestStatusPartiallyApproved},
	}
	requestIDs := func(rs []domain.VehicleRequest) []int64 {
		return ids(rs, func(r domain.VehicleRequest) int64 { return r.ID })
	}
	assert.Equal(t, []int64{1, 2}, requestIDs(PendingRequests(requests)))
	assert.Equal(t, []int64{1, 3}, requestIDs(BranchRequests(requests, 2)))
	assert.Equal(t, []int64{3}, requestIDs(RequestsByStatus(requests, "Partially-Approved")))

	bookings := []domain.Booking{
		{ID: 1, CustomerID: 5, BranchID: 2, Status: domain.BookingStatusPending},
		{ID: 2, CustomerID: 6, BranchID: 2, Status: domain.BookingStatusApproved},
		{ID: 3, CustomerID: 5, BranchID: 3, Status: domain.BookingStatusApproved},
	}
	bookingIDs := func(bs []domain.Booking) []int64 { return ids(bs, func(b domain.Booking) int64 { return b.ID }) }
	assert.Equal(t, []int64{1}, bookingIDs(PendingBookings(bookings)))
	assert.Equal(t, []int64{1, 2}, bookingIDs(BranchBookings(bookings, 2)))
	assert.Equal(t, []int64{1, 3}, bookingIDs(CustomerBookings(bookings, 5)))
	assert.Empty(t, CustomerBookings(nil, 5))
}

func TestStats(t *testing.T) {
	users := []domain.User{
		{ID: 1, Role: domain.RoleAdmin, Status: domain.UserStatusApproved},
		{ID: 2, Role: domain.RoleBranchAdmin, Status: domain.UserStatusApproved},
		{ID: 3, Role: domain.RoleCustomer, Status: domain.UserStatusPending},
	}
	requests := []domain.VehicleRequest{
		{ID: 1, BranchID: 2, Status: domain.RequestStatusPending},
		{ID: 2, BranchID: 2, Status: domain.RequestStatusApproved},
	}
	bookings := []domain.Booking{
		{ID: 1, CustomerID: 3, BranchID: 2, Status: domain.BookingStatusApproved, TotalAmount: 255},
		{ID: 2, CustomerID: 3, BranchID: 2, Status: domain.BookingStatusPending, TotalAmount: 100},
		{ID: 3, CustomerID: 9, BranchID: 7, Status: domain.BookingStatusApproved, TotalAmount: 400},
	}

	assert.Equal(t, AdminStats{
		TotalVehicles: 5, TotalStock: 28, AvailableUnits: 17,
		PendingUsers: 1, PendingRequests: 1, BranchAdmins: 1, Customers: 1,
	}, ComputeAdminStats(users, inventory, requests))

	assert.Equal(t, BranchStats{
		TotalBookings: 2, PendingBookings: 1, ApprovedBookings: 1, PendingRequests: 1, Revenue: 255,
	}, ComputeBranchStats(2, bookings, requests))

	assert.Equal(t, CustomerStats{AvailableVehicles: 4, MyBookings: 2, PendingApproval: 1},
		ComputeCustomerStats(3, inventory, bookings))
}

package view

import "vehicle-rental-admin/internal/domain"

// AdminStats are the admin dashboard's headline figures.
type AdminStats struct {
	TotalVehicles   int
	TotalStock      int
	AvailableUnits  int
	PendingUsers    int
	PendingRequests int
	BranchAdmins    int
	Customers       int
}

func ComputeAdminStats(users []domain.User, vehicles []domain.Vehicle, requests []domain.VehicleRequest) AdminStats {
	s := AdminStats{
		TotalVehicles:   len(vehicles),
		PendingUsers:    len(PendingUsers(users)),
		PendingRequests: len(PendingRequests(requests)),
	}
	for _, v := range vehicles {
		s.TotalStock += v.TotalStock
		s.AvailableUnits += v.Availability
	}
	for _, u := range users {
		switch u.Role {
		case domain.RoleBranchAdmin:
			s.BranchAdmins++
		case domain.RoleCustomer:
			s.Customers++
		}
	}
	return s
}

// BranchStats summarize one branch's bookings and stock requests.
type BranchStats struct {
	TotalBookings    int
	PendingBookings  int
	ApprovedBookings int
	PendingRequests  int
	Revenue          float64
}

// ComputeBranchStats counts revenue from approved bookings only.
func ComputeBranchStats(branchID int64, bookings []domain.Booking, requests []domain.VehicleRequest) BranchStats {
	mine := BranchBookings(bookings, branchID)
	approved := BookingsByStatus(mine, domain.BookingStatusApproved)
	s := BranchStats{
		TotalBookings:    len(mine),
		PendingBookings:  len(PendingBookings(mine)),
		ApprovedBookings: len(approved),
		PendingRequests:  len(PendingRequests(BranchRequests(requests, branchID))),
	}
	for _, b := range approved {
		s.Revenue += b.TotalAmount
	}
	return s
}

type CustomerStats struct {
	AvailableVehicles int
	MyBookings        int
	PendingApproval   int
}

func ComputeCustomerStats(customerID int64, vehicles []domain.Vehicle, bookings []domain.Booking) CustomerStats {
	mine := CustomerBookings(bookings, customerID)
	s := CustomerStats{
		MyBookings:      len(mine),
		PendingApproval: len(PendingBookings(mine)),
	}
	for _, v := range vehicles {
		if v.Availability > 0 {
			s.AvailableVehicles++
		}
	}
	return s
}

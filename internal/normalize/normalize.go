// Package normalize maps server-shaped records into the client's canonical
// shape: role and status casing, and the role-shaped profile sub-object.
package normalize

import (
	"strings"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/logger"
)

// NormalizeRole maps any casing or separator of a server role to its
// canonical form. Unrecognized roles pass through unchanged.
func NormalizeRole(role string) domain.Role {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case "ADMIN":
		return domain.RoleAdmin
	case "BRANCH_ADMIN", "BRANCH-ADMIN":
		return domain.RoleBranchAdmin
	case "CUSTOMER":
		return domain.RoleCustomer
	}
	if role != "" {
		logger.Warn("Unrecognized user role", "role", role)
	}
	return domain.Role(role)
}

// ServerRole is the registration form of a canonical role. Anything other
// than a branch-admin or admin registers as a customer.
func ServerRole(role domain.Role) string {
	switch NormalizeRole(string(role)) {
	case domain.RoleBranchAdmin:
		return "BRANCH_ADMIN"
	case domain.RoleAdmin:
		return "ADMIN"
	default:
		return "CUSTOMER"
	}
}

// NormalizeUser returns a canonical copy of u. A nil user is returned as is.
// The flat profile fields are kept, so normalizing twice changes nothing.
func NormalizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	out := *u
	out.Role = NormalizeRole(string(u.Role))
	out.Status = domain.UserStatus(strings.ToLower(string(u.Status)))
	out.Profile = profileFor(&out)
	return &out
}

// NormalizeUsers normalizes every user of a collection.
func NormalizeUsers(users []domain.User) []domain.User {
	out := make([]domain.User, 0, len(users))
	for i := range users {
		out = append(out, *NormalizeUser(&users[i]))
	}
	return out
}

func profileFor(u *domain.User) *domain.Profile {
	switch u.Role {
	case domain.RoleCustomer:
		return &domain.Profile{Customer: &domain.CustomerProfile{
			Name:          u.FullName,
			Email:         u.Email,
			Phone:         u.Phone,
			Address:       u.Address,
			LicenseNumber: u.LicenseNumber,
		}}
	case domain.RoleBranchAdmin:
		return &domain.Profile{Branch: &domain.BranchProfile{
			BranchName:  u.BranchName,
			BranchCode:  u.BranchCode,
			Address:     u.Address,
			Phone:       u.Phone,
			Email:       u.Email,
			ManagerName: u.ManagerName,
		}}
	default:
		return &domain.Profile{}
	}
}

// canonicalStatus lower-cases a status and turns underscores into hyphens,
// so PARTIALLY_APPROVED becomes partially-approved.
func canonicalStatus(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}

func NormalizeBooking(b domain.Booking) domain.Booking {
	b.Status = domain.BookingStatus(canonicalStatus(string(b.Status)))
	return b
}

func NormalizeBookings(bookings []domain.Booking) []domain.Booking {
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NormalizeBooking(b))
	}
	return out
}

func NormalizeVehicleRequest(r domain.VehicleRequest) domain.VehicleRequest {
	r.Status = domain.RequestStatus(canonicalStatus(string(r.Status)))
	return r
}

func NormalizeVehicleRequests(requests []domain.VehicleRequest) []domain.VehicleRequest {
	out := make([]domain.VehicleRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, NormalizeVehicleRequest(r))
	}
	return out
}

// NormalizeVehicle floors a negative availability read at zero.
func NormalizeVehicle(v domain.Vehicle) domain.Vehicle {
	if v.Availability < 0 {
		v.Availability = 0
	}
	return v
}

func NormalizeVehicles(vehicles []domain.Vehicle) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, NormalizeVehicle(v))
	}
	return out
}

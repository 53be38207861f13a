package mockapi

import (
	"fmt"

	"vehicle-rental-admin/internal/domain"
)

// Seed accounts. Passwords are for local use only.
const (
	SeedAdminLogin    = "admin"
	SeedAdminPassword = "admin123"
	SeedBranchLogin   = "branch1"
	SeedCustomerLogin = "customer1"
	SeedUserPassword  = "password123"
)

func intPtr(i int) *int { return &i }

// Seed loads the demo data set: an admin, one approved branch admin with a
// complete profile, one approved customer and a small fleet.
func (b *Backend) Seed() error {
	users := []struct {
		user     domain.User
		password string
	}{
		{domain.User{UserID: SeedAdminLogin, Role: domain.RoleAdmin, Status: domain.UserStatusApproved, FullName: "System Administrator", Email: "admin@vehiclebooking.com"}, SeedAdminPassword},
		{domain.User{UserID: SeedBranchLogin, Role: domain.RoleBranchAdmin, Status: domain.UserStatusApproved, BranchName: "Downtown Branch", BranchCode: "DT-01", Address: "1 Main Street", Phone: "555-0100", ManagerName: "Dana Reyes"}, SeedUserPassword},
		{domain.User{UserID: SeedCustomerLogin, Role: domain.RoleCustomer, Status: domain.UserStatusApproved, FullName: "Chris Lee", Email: "chris@example.com", LicenseNumber: "DL-4411"}, SeedUserPassword},
	}
	for _, u := range users {
		if _, err := b.AddUser(u.user, u.password); err != nil {
			return fmt.Errorf("seed user %s: %w", u.user.UserID, err)
		}
	}

	vehicles := []domain.VehicleInput{
		{Name: "Toyota Camry 2024", Type: "Sedan", Brand: "Toyota", Model: "Camry", Year: 2024, PricePerDay: 85, Features: []string{"AC", "GPS", "Bluetooth", "Backup Camera"}, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 5, TotalStock: 10, Availability: intPtr(8)},
		{Name: "Honda CR-V 2024", Type: "SUV", Brand: "Honda", Model: "CR-V", Year: 2024, PricePerDay: 120, Features: []string{"AC", "GPS", "AWD", "Sunroof", "Leather Seats"}, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 7, TotalStock: 8, Availability: intPtr(5)},
		{Name: "BMW X5 2024", Type: "SUV", Brand: "BMW", Model: "X5", Year: 2024, PricePerDay: 200, Features: []string{"AC", "GPS", "AWD", "Sunroof", "Leather Seats", "Premium Sound"}, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 7, TotalStock: 5, Availability: intPtr(3)},
		{Name: "Tesla Model 3", Type: "Electric", Brand: "Tesla", Model: "Model 3", Year: 2023, PricePerDay: 150, Features: []string{"Autopilot", "Premium Audio", "Glass Roof"}, FuelType: "Electric", Transmission: "Automatic", SeatingCapacity: 5, TotalStock: 4, Availability: intPtr(0)},
	}
	for _, v := range vehicles {
		if _, err := b.CreateVehicle(v); err != nil {
			return fmt.Errorf("seed vehicle %s: %w", v.Name, err)
		}
	}
	return nil
}

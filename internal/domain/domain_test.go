package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingTotal(t *testing.T) {
	start, err := ParseDate("2025-03-01")
	require.NoError(t, err)

	t.Run("Whole days", func(t *testing.T) {
		end, _ := ParseDate("2025-03-04")
		assert.Equal(t, 3, RentalDays(start, end))
		assert.Equal(t, 150.0, BookingTotal(50, start, end))
	})

	t.Run("Partial day rounds up", func(t *testing.T) {
		end := start.Add(26 * time.Hour)
		assert.Equal(t, 2, RentalDays(start, end))
		assert.Equal(t, 90.0, BookingTotal(45, start, end))
	})

	t.Run("Same or reversed range costs nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, BookingTotal(50, start, start))
		assert.Equal(t, 0.0, BookingTotal(50, start, start.Add(-48*time.Hour)))
	})
}

func TestUser_NeedsProfileSetup(t *testing.T) {
	assert.True(t, (&User{Role: RoleBranchAdmin}).NeedsProfileSetup())
	assert.True(t, (&User{Role: RoleBranchAdmin, Profile: &Profile{Branch: &BranchProfile{}}}).NeedsProfileSetup())
	assert.False(t, (&User{Role: RoleBranchAdmin, Profile: &Profile{Branch: &BranchProfile{BranchName: "DT"}}}).NeedsProfileSetup())
	assert.True(t, (&User{Role: RoleCustomer, Profile: &Profile{}}).NeedsProfileSetup())
	assert.False(t, (&User{Role: RoleCustomer, Profile: &Profile{Customer: &CustomerProfile{Name: "Bob"}}}).NeedsProfileSetup())
	assert.False(t, (&User{Role: RoleAdmin}).NeedsProfileSetup())
	var nilUser *User
	assert.False(t, nilUser.NeedsProfileSetup())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Bob", (&User{UserID: "bob", Profile: &Profile{Customer: &CustomerProfile{Name: "Bob"}}}).DisplayName())
	assert.Equal(t, "Robert", (&User{UserID: "bob", FullName: "Robert"}).DisplayName())
	assert.Equal(t, "bob", (&User{UserID: "bob"}).DisplayName())
}

func TestVehicleRequest_Granted(t *testing.T) {
	qty := 3
	assert.Equal(t, 0, VehicleRequest{}.Granted())
	assert.Equal(t, 3, VehicleRequest{ApprovedQuantity: &qty}.Granted())
	assert.True(t, VehicleRequest{Status: RequestStatusPartiallyApproved}.IsGranted())
	assert.False(t, VehicleRequest{Status: RequestStatusRejected}.IsGranted())
}

func TestVehicle_Input(t *testing.T) {
	in := Vehicle{ID: 1, Name: "Civic", Availability: 2, TotalStock: 5}.Input()
	require.NotNil(t, in.Availability)
	assert.Equal(t, 2, *in.Availability)
	assert.Equal(t, 5, in.TotalStock)
}

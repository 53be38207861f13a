package domain

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleBranchAdmin Role = "branch-admin"
	RoleCustomer    Role = "customer"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// BranchProfile is the profile shape of a branch-admin.
type BranchProfile struct {
	BranchName  string `json:"branchName"`
	BranchCode  string `json:"branchCode"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ManagerName string `json:"managerName"`
}

// CustomerProfile is the profile shape of a customer.
type CustomerProfile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	LicenseNumber string `json:"licenseNumber"`
}

// Profile holds at most one role-shaped profile. Roles without a profile
// shape carry an empty Profile.
type Profile struct {
	Branch   *BranchProfile   `json:"branch,omitempty"`
	Customer *CustomerProfile `json:"customer,omitempty"`
}

// User mirrors the server's user record. The flat profile fields are kept as
// delivered; Profile is synthesized from them during normalization.
type User struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"userId"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt string     `json:"createdAt"`

	FullName      string `json:"fullName,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	BranchName    string `json:"branchName,omitempty"`
	BranchCode    string `json:"branchCode,omitempty"`
	ManagerName   string `json:"managerName,omitempty"`

	Profile *Profile `json:"profile,omitempty"`
}

// NeedsProfileSetup reports whether the user still has to fill in the
// profile their role requires before using the dashboard.
func (u *User) NeedsProfileSetup() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleBranchAdmin:
		return u.Profile == nil || u.Profile.Branch == nil || u.Profile.Branch.BranchName == ""
	case RoleCustomer:
		return u.Profile == nil || u.Profile.Customer == nil || u.Profile.Customer.Name == ""
	default:
		return false
	}
}

// DisplayName is the name shown for the user, falling back to the login id.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Profile != nil && u.Profile.Customer != nil && u.Profile.Customer.Name != "" {
		return u.Profile.Customer.Name
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.UserID
}

// ProfileUpdate is the body of a profile update call. Branch and customer
// flows fill different subsets of it.
type ProfileUpdate struct {
	FullName      string `json:"fullName,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	BranchName    string `json:"branchName,omitempty"`
	BranchCode    string `json:"branchCode,omitempty"`
	ManagerName   string `json:"managerName,omitempty"`
}

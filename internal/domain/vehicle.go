package domain

type Vehicle struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	PricePerDay     float64  `json:"pricePerDay"`
	Features        []string `json:"features"`
	FuelType        string   `json:"fuelType"`
	Transmission    string   `json:"transmission"`
	SeatingCapacity int      `json:"seatingCapacity"`
	Image           string   `json:"imageUrl"`
	Availability    int      `json:"availability"`
	TotalStock      int      `json:"totalStock"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}

// VehicleInput is the create/update body for a vehicle. Availability is only
// sent on full updates.
type VehicleInput struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	PricePerDay     float64  `json:"pricePerDay"`
	Features        []string `json:"features"`
	FuelType        string   `json:"fuelType"`
	Transmission    string   `json:"transmission"`
	SeatingCapacity int      `json:"seatingCapacity"`
	Image           string   `json:"imageUrl"`
	TotalStock      int      `json:"totalStock"`
	Availability    *int     `json:"availability,omitempty"`
}

// Input returns the vehicle as an update body, availability included.
func (v Vehicle) Input() VehicleInput {
	availability := v.Availability
	return VehicleInput{
		Name:            v.Name,
		Type:            v.Type,
		Brand:           v.Brand,
		Model:           v.Model,
		Year:            v.Year,
		PricePerDay:     v.PricePerDay,
		Features:        v.Features,
		FuelType:        v.FuelType,
		Transmission:    v.Transmission,
		SeatingCapacity: v.SeatingCapacity,
		Image:           v.Image,
		TotalStock:      v.TotalStock,
		Availability:    &availability,
	}
}

type RequestStatus string

const (
	RequestStatusPending           RequestStatus = "pending"
	RequestStatusApproved          RequestStatus = "approved"
	RequestStatusRejected          RequestStatus = "rejected"
	RequestStatusPartiallyApproved RequestStatus = "partially-approved"
)

// VehicleRequest is a branch's restocking request to the central admin.
type VehicleRequest struct {
	ID                int64         `json:"id"`
	BranchID          int64         `json:"branchId"`
	BranchName        string        `json:"branchName"`
	VehicleID         int64         `json:"vehicleId"`
	VehicleName       string        `json:"vehicleName"`
	RequestedQuantity int           `json:"requestedQuantity"`
	ApprovedQuantity  *int          `json:"approvedQuantity,omitempty"`
	Status            RequestStatus `json:"status"`
	RequestDate       string        `json:"requestDate"`
	ApprovedDate      string        `json:"approvedDate,omitempty"`
	AdminNotes        string        `json:"adminNotes,omitempty"`
}

// Granted returns the approved quantity, zero when none was recorded.
func (r VehicleRequest) Granted() int {
	if r.ApprovedQuantity == nil {
		return 0
	}
	return *r.ApprovedQuantity
}

// IsGranted reports whether the request released stock.
func (r VehicleRequest) IsGranted() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusPartiallyApproved
}

type VehicleRequestInput struct {
	BranchID          int64  `json:"branchId"`
	BranchName        string `json:"branchName"`
	VehicleID         int64  `json:"vehicleId"`
	VehicleName       string `json:"vehicleName"`
	RequestedQuantity int    `json:"requestedQuantity"`
}

type RequestDecision struct {
	ApprovedQuantity *int   `json:"approvedQuantity,omitempty"`
	AdminNotes       string `json:"adminNotes,omitempty"`
}

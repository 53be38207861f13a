package domain

import (
	"errors"
	"math"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusInProcess BookingStatus = "in-process"
)

// DateLayout is the wire format of booking start and end dates.
const DateLayout = "2006-01-02"

var ErrInvalidDateRange = errors.New("end date must be after start date")

type Booking struct {
	ID               int64         `json:"id"`
	CustomerID       int64         `json:"customerId"`
	CustomerName     string        `json:"customerName"`
	VehicleID        int64         `json:"vehicleId"`
	VehicleName      string        `json:"vehicleName"`
	BranchID         int64         `json:"branchId"`
	BranchName       string        `json:"branchName"`
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	TotalAmount      float64       `json:"totalAmount"`
	Status           BookingStatus `json:"status"`
	BookingDate      string        `json:"bookingDate"`
	ApprovedDate     string        `json:"approvedDate,omitempty"`
	BranchAdminNotes string        `json:"branchAdminNotes,omitempty"`

	// Explicit vehicle figures attached by the caller; when present they
	// replace the locally computed availability change.
	VehicleAvailability *int `json:"vehicleAvailability,omitempty"`
	VehicleTotalStock   *int `json:"vehicleTotalStock,omitempty"`
}

type BookingInput struct {
	CustomerID   int64         `json:"customerId"`
	CustomerName string        `json:"customerName"`
	VehicleID    int64         `json:"vehicleId"`
	VehicleName  string        `json:"vehicleName"`
	BranchID     int64         `json:"branchId"`
	BranchName   string        `json:"branchName"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	TotalAmount  float64       `json:"totalAmount"`
	Status       BookingStatus `json:"status"`
}

// BookingDecision is the body of a booking approve/reject call.
type BookingDecision struct {
	BranchAdminNotes   string `json:"branchAdminNotes"`
	Status             string `json:"status,omitempty"`
	VehicleID          int64  `json:"vehicleId"`
	UpdateAvailability bool   `json:"updateAvailability"`
}

// ParseDate parses a YYYY-MM-DD booking date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// RentalDays is the number of started days between start and end.
func RentalDays(start, end time.Time) int {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return int(days)
}

// BookingTotal is pricePerDay × ceil(days); an empty or reversed range costs nothing.
func BookingTotal(pricePerDay float64, start, end time.Time) float64 {
	return float64(RentalDays(start, end)) * pricePerDay
}

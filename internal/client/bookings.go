package client

import (
	"context"
	"fmt"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/normalize"
)

func (c *Client) ListBookings(ctx context.Context, token string) ([]domain.Booking, error) {
	return c.listBookings(ctx, token, "/api/bookings")
}

func (c *Client) ListCustomerBookings(ctx context.Context, token string, customerID int64) ([]domain.Booking, error) {
	return c.listBookings(ctx, token, fmt.Sprintf("/api/bookings/customer/%d", customerID))
}

func (c *Client) ListBranchBookings(ctx context.Context, token string, branchID int64) ([]domain.Booking, error) {
	return c.listBookings(ctx, token, fmt.Sprintf("/api/bookings/branch/%d", branchID))
}

func (c *Client) listBookings(ctx context.Context, token, path string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.do(ctx, "GET", path, token, nil, &bookings); err != nil {
		return nil, err
	}
	return normalize.NormalizeBookings(bookings), nil
}

// CreateBooking submits a reservation. The status is always sent as pending.
func (c *Client) CreateBooking(ctx context.Context, token string, in domain.BookingInput) (*domain.Booking, error) {
	in.Status = domain.BookingStatusPending
	var b domain.Booking
	if err := c.do(ctx, "POST", "/api/bookings", token, in, &b); err != nil {
		return nil, err
	}
	b = normalize.NormalizeBooking(b)
	return &b, nil
}

// ApproveBooking asks the server to approve and take one unit of stock.
func (c *Client) ApproveBooking(ctx context.Context, token string, id, vehicleID int64, notes string) (*domain.Booking, error) {
	d := domain.BookingDecision{
		BranchAdminNotes:   notes,
		Status:             "APPROVED",
		VehicleID:          vehicleID,
		UpdateAvailability: true,
	}
	return c.bookingTransition(ctx, token, id, "approve", d)
}

// RejectBooking rejects a booking. restore asks the server to give the unit
// back, which only applies to a booking that was approved.
func (c *Client) RejectBooking(ctx context.Context, token string, id, vehicleID int64, notes string, restore bool) (*domain.Booking, error) {
	d := domain.BookingDecision{
		BranchAdminNotes:   notes,
		Status:             "REJECTED",
		VehicleID:          vehicleID,
		UpdateAvailability: restore,
	}
	return c.bookingTransition(ctx, token, id, "reject", d)
}

func (c *Client) bookingTransition(ctx context.Context, token string, id int64, verb string, d domain.BookingDecision) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/bookings/%d/%s", id, verb), token, d, &b); err != nil {
		return nil, err
	}
	b = normalize.NormalizeBooking(b)
	return &b, nil
}

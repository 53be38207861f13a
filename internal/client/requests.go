package client

import (
	"context"
	"fmt"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/normalize"
)

func (c *Client) ListRequests(ctx context.Context, token string) ([]domain.VehicleRequest, error) {
	var requests []domain.VehicleRequest
	if err := c.do(ctx, "GET", "/api/requests", token, nil, &requests); err != nil {
		return nil, err
	}
	return normalize.NormalizeVehicleRequests(requests), nil
}

func (c *Client) CreateRequest(ctx context.Context, token string, in domain.VehicleRequestInput) (*domain.VehicleRequest, error) {
	var r domain.VehicleRequest
	if err := c.do(ctx, "POST", "/api/requests", token, in, &r); err != nil {
		return nil, err
	}
	r = normalize.NormalizeVehicleRequest(r)
	return &r, nil
}

// ApproveRequest grants a restocking request. A nil ApprovedQuantity grants
// the full requested quantity; a lower one yields a partial approval.
func (c *Client) ApproveRequest(ctx context.Context, token string, id int64, d domain.RequestDecision) (*domain.VehicleRequest, error) {
	return c.requestTransition(ctx, token, id, "approve", d)
}

func (c *Client) RejectRequest(ctx context.Context, token string, id int64, notes string) (*domain.VehicleRequest, error) {
	return c.requestTransition(ctx, token, id, "reject", domain.RequestDecision{AdminNotes: notes})
}

func (c *Client) requestTransition(ctx context.Context, token string, id int64, verb string, d domain.RequestDecision) (*domain.VehicleRequest, error) {
	var r domain.VehicleRequest
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/requests/%d/%s", id, verb), token, d, &r); err != nil {
		return nil, err
	}
	r = normalize.NormalizeVehicleRequest(r)
	return &r, nil
}

package client

import (
	"context"
	"fmt"

	"vehicle-rental-admin/internal/domain"
	"vehicle-rental-admin/internal/normalize"
)

// ListVehicles returns the full inventory, bypassing intermediate caches.
func (c *Client) ListVehicles(ctx context.Context, token string) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	if err := c.do(ctx, "GET", c.fresh("/api/vehicles"), token, nil, &vehicles); err != nil {
		return nil, err
	}
	return normalize.NormalizeVehicles(vehicles), nil
}

// ListAvailableVehicles returns vehicles with availability above zero.
func (c *Client) ListAvailableVehicles(ctx context.Context, token string) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	if err := c.do(ctx, "GET", c.fresh("/api/vehicles/available"), token, nil, &vehicles); err != nil {
		return nil, err
	}
	return normalize.NormalizeVehicles(vehicles), nil
}

func (c *Client) GetVehicle(ctx context.Context, token string, id int64) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := c.do(ctx, "GET", c.fresh(fmt.Sprintf("/api/vehicles/%d", id)), token, nil, &v); err != nil {
		return nil, err
	}
	v = normalize.NormalizeVehicle(v)
	return &v, nil
}

func (c *Client) CreateVehicle(ctx context.Context, token string, in domain.VehicleInput) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := c.do(ctx, "POST", "/api/vehicles", token, in, &v); err != nil {
		return nil, err
	}
	v = normalize.NormalizeVehicle(v)
	return &v, nil
}

// UpdateVehicle replaces every field of the vehicle, availability included.
func (c *Client) UpdateVehicle(ctx context.Context, token string, id int64, in domain.VehicleInput) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/vehicles/%d", id), token, in, &v); err != nil {
		return nil, err
	}
	v = normalize.NormalizeVehicle(v)
	return &v, nil
}

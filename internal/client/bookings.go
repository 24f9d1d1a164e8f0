package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"tripbook/internal/domain/models"
)

type BookingService struct {
	c *Client
}

type CreateBookingRequest struct {
	PackageID      int64   `json:"packageId"`
	TravelDate     string  `json:"travelDate"`
	TravelersCount int     `json:"travelersCount"`
	TotalPrice     float64 `json:"totalPrice"`
}

func (s BookingService) Create(ctx context.Context, req CreateBookingRequest) (models.Booking, error) {
	var out models.Booking
	err := s.c.doJSON(ctx, http.MethodPost, "/api/bookings", req, &out)
	return out, err
}

func (s BookingService) Get(ctx context.Context, id int64) (models.Booking, error) {
	var out models.Booking
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/bookings/%d", id), &out)
	return out, err
}

func (s BookingService) ListByTourist(ctx context.Context, touristID int64) ([]models.Booking, error) {
	var out []models.Booking
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/bookings/tourist/%d", touristID), &out)
	return out, err
}

func (s BookingService) ListByPackage(ctx context.Context, packageID int64) ([]models.Booking, error) {
	var out []models.Booking
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/bookings/package/%d", packageID), &out)
	return out, err
}

// List returns every booking visible to the logged-in user.
func (s BookingService) List(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := s.c.getJSON(ctx, "/api/bookings", &out)
	return out, err
}

func (s BookingService) UpdateStatus(ctx context.Context, id int64, status string) (models.Booking, error) {
	var out models.Booking
	err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d/status", id), map[string]string{"status": status}, &out)
	return out, err
}

// Invoice downloads the invoice PDF of a verified booking.
func (s BookingService) Invoice(ctx context.Context, id int64) ([]byte, error) {
	resp, err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookings/%d/invoice", id), nil, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, decode(resp, http.MethodGet, "invoice", nil)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"tripbook/internal/domain/models"
)

type PaymentService struct {
	c *Client
}

// UploadProof sends the proof image in the multipart field "file".
func (s PaymentService) UploadProof(ctx context.Context, bookingID int64, filename string, file io.Reader) (models.ProofUpload, error) {
	var out models.ProofUpload
	err := s.c.upload(ctx, fmt.Sprintf("/api/bookings/%d/payment-proof", bookingID), "file", filename, file, nil, &out)
	return out, err
}

func (s PaymentService) Verify(ctx context.Context, bookingID int64) (models.Booking, error) {
	var out models.Booking
	err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d/payment-verify", bookingID), nil, &out)
	return out, err
}

func (s PaymentService) Reject(ctx context.Context, bookingID int64, reason string) (models.Booking, error) {
	var out models.Booking
	err := s.c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/bookings/%d/payment-reject", bookingID), map[string]string{"reason": reason}, &out)
	return out, err
}

// Pending is the agent's verification queue.
func (s PaymentService) Pending(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := s.c.getJSON(ctx, "/api/bookings/payment/pending", &out)
	return out, err
}

func (s PaymentService) History(ctx context.Context, bookingID int64) ([]models.PaymentEvent, error) {
	var out []models.PaymentEvent
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/bookings/%d/payment-history", bookingID), &out)
	return out, err
}

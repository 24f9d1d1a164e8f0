package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"tripbook/internal/domain/models"
)

type QRISService struct {
	c *Client
}

type generateRequest struct {
	Amount    float64 `json:"amount"`
	BookingID int64   `json:"bookingId,omitempty"`
}

// Generate asks the server for the QR to pay amount. bookingID selects the
// agent owning the booked package; zero uses the caller's own QRIS.
func (s QRISService) Generate(ctx context.Context, amount float64, bookingID int64) (models.GeneratedQR, error) {
	var out models.GeneratedQR
	err := s.c.doJSON(ctx, http.MethodPost, "/api/payment/generate", generateRequest{Amount: amount, BookingID: bookingID}, &out)
	return out, err
}

func (s QRISService) List(ctx context.Context) ([]models.QRIS, error) {
	var out []models.QRIS
	err := s.c.getJSON(ctx, "/api/qris", &out)
	return out, err
}

// Upload stores a new static QRIS (field "foto_qr") and makes it active.
func (s QRISService) Upload(ctx context.Context, feeType string, feeValue float64, filename string, image io.Reader) (models.QRIS, error) {
	fields := map[string]string{}
	if feeType != "" {
		fields["fee_type"] = feeType
	}
	if feeValue != 0 {
		fields["fee_value"] = strconv.FormatFloat(feeValue, 'f', -1, 64)
	}
	var out models.QRIS
	err := s.c.upload(ctx, "/api/qris", "foto_qr", filename, image, fields, &out)
	return out, err
}

func (s QRISService) Delete(ctx context.Context, id int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/qris/%d", id), nil, nil)
}

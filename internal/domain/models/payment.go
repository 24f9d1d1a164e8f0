package models

import (
	"time"

	"tripbook/internal/domain"
)

// PaymentEvent is one row of a booking's payment history.
type PaymentEvent struct {
	ID            int64                `json:"id"`
	BookingID     int64                `json:"bookingId"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Reason        *string              `json:"reason,omitempty"`
	ProofURL      *string              `json:"proofUrl,omitempty"`
	ActorID       int64                `json:"actorId"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// QRIS is an agent's static payment QR image.
type QRIS struct {
	ID        int64          `json:"id"`
	AgentID   int64          `json:"agentId"`
	FotoQrURL string         `json:"fotoQrUrl"`
	FeeType   domain.FeeType `json:"feeType"`
	FeeValue  float64        `json:"feeValue"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
}

// GeneratedQR is the single documented response of the QR generation endpoint.
type GeneratedQR struct {
	FotoQrURL   string         `json:"fotoQrUrl"`
	Amount      float64        `json:"amount"`
	TotalAmount float64        `json:"totalAmount"`
	FeeType     domain.FeeType `json:"feeType"`
	FeeValue    float64        `json:"feeValue"`
}

// ProofUpload is returned after a payment proof is accepted for review.
type ProofUpload struct {
	PaymentProofURL        string               `json:"paymentProofUrl"`
	PaymentStatus          domain.PaymentStatus `json:"paymentStatus"`
	PaymentProofUploadedAt time.Time            `json:"paymentProofUploadedAt"`
}

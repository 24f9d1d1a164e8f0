// Package qris drives QR generation for a booking's payment screen.
package qris

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tripbook/internal/client"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

// ErrNoActiveQRIS means the package's agent has not uploaded a static QRIS.
var ErrNoActiveQRIS = errors.New("agent must upload a static QRIS first")

// Generator is the QR endpoint of the REST client.
type Generator interface {
	Generate(ctx context.Context, amount float64, bookingID int64) (models.GeneratedQR, error)
}

type State struct {
	QRImageURL  string
	Amount      float64
	TotalAmount float64
	FeeType     domain.FeeType
	FeeValue    float64
	Loading     bool
	Err         error
}

// Orchestrator generates the QR for one booking. Ensure is idempotent once a
// QR was produced; Regenerate always asks the server again.
type Orchestrator struct {
	gen Generator

	mu      sync.Mutex
	booking models.Booking
	state   State
	done    bool
}

func NewOrchestrator(gen Generator) *Orchestrator {
	return &Orchestrator{gen: gen}
}

// Ensure generates a QR for b unless its payment is already verified or a QR
// for the same booking exists.
func (o *Orchestrator) Ensure(ctx context.Context, b models.Booking) error {
	o.mu.Lock()
	if o.booking.ID != b.ID {
		o.booking = b.Clone()
		o.state = State{}
		o.done = false
	}
	skip := o.done || b.PaymentStatus == domain.PaymentVerified
	o.mu.Unlock()
	if skip {
		return nil
	}
	return o.generate(ctx)
}

// Regenerate requests a new QR for the current booking.
func (o *Orchestrator) Regenerate(ctx context.Context) error {
	o.mu.Lock()
	id := o.booking.ID
	o.mu.Unlock()
	if id == 0 {
		return domain.ValidationError{Field: "bookingId", Msg: "no booking selected", Err: domain.ErrInvalidArgument}
	}
	return o.generate(ctx)
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) generate(ctx context.Context) error {
	o.mu.Lock()
	if o.state.Loading {
		o.mu.Unlock()
		return nil
	}
	b := o.booking
	o.state.Loading = true
	o.state.Err = nil
	o.mu.Unlock()

	qr, err := o.gen.Generate(ctx, b.TotalPrice, b.ID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.booking.ID != b.ID {
		// booking switched while the request was in flight; its state belongs to the new one
		return nil
	}
	o.state.Loading = false
	if err != nil {
		o.state.Err = classify(err)
		utils.LogEvent("", "qris", "generate", fmt.Sprintf("booking_id=%d failed: %v", b.ID, err))
		return o.state.Err
	}
	o.state.QRImageURL = qr.FotoQrURL
	o.state.Amount = qr.Amount
	o.state.TotalAmount = qr.TotalAmount
	o.state.FeeType = qr.FeeType
	o.state.FeeValue = qr.FeeValue
	o.done = true
	return nil
}

func classify(err error) error {
	if client.IsStatus(err, 404) && client.HasCode(err, client.CodeNoActiveQRIS) {
		return ErrNoActiveQRIS
	}
	if client.IsStatus(err, 404) {
		// booking gone or not visible; retrying will not help
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("gagal membuat QR, silakan coba lagi: %w", err)
}

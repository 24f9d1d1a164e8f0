package services

import (
	"context"
	"fmt"
	"io"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/metrics"
	"tripbook/internal/utils"
)

const qrisFolder = "qris"

// maxQRISImage caps a static QR upload. It shares the proof limit.
const maxQRISImage = domain.MaxProofSize

type QRISService struct {
	QRIS     QRISRepo
	Bookings BookingRepo
	Packages PackageRepo
	Store    ImageStore
}

type UploadQRISInput struct {
	FeeType  string
	FeeValue float64
	Image    io.Reader
}

// Upload stores a new static QRIS for the agent and makes it the active one.
func (s QRISService) Upload(ctx context.Context, actor domain.Actor, in UploadQRISInput) (models.QRIS, error) {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return models.QRIS{}, err
	}
	feeType, err := domain.ParseFeeType(in.FeeType)
	if err != nil {
		return models.QRIS{}, err
	}
	if err := domain.ValidateFee(feeType, in.FeeValue); err != nil {
		return models.QRIS{}, err
	}
	if in.Image == nil {
		return models.QRIS{}, domain.ValidationError{Field: "foto_qr", Msg: "foto_qr wajib diisi", Err: domain.ErrInvalidArgument}
	}
	stored, err := s.Store.SaveImage(ctx, qrisFolder, in.Image, maxQRISImage)
	if err != nil {
		return models.QRIS{}, err
	}

	q := models.QRIS{AgentID: actor.UserID, FotoQrURL: stored.URL, FeeType: feeType, FeeValue: in.FeeValue}
	if err := s.QRIS.Activate(ctx, &q); err != nil {
		discardUpload(ctx, s.Store, stored.URL)
		return models.QRIS{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "qris", "upload", fmt.Sprintf("agent_id=%d qris_id=%d fee=%s:%v", actor.UserID, q.ID, feeType, in.FeeValue))
	return q, nil
}

func (s QRISService) List(ctx context.Context, actor domain.Actor) ([]models.QRIS, error) {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return nil, err
	}
	return s.QRIS.ListByAgent(ctx, actor.UserID)
}

func (s QRISService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireRole(actor, domain.RoleAgent); err != nil {
		return err
	}
	return s.QRIS.Delete(ctx, actor.UserID, id)
}

// Generate returns the QR image and the amount to pay including the agent's fee.
// With a bookingID the QRIS of the agent owning the booked package is used,
// otherwise the caller must be an agent and their own QRIS is used.
func (s QRISService) Generate(ctx context.Context, actor domain.Actor, amount float64, bookingID int64) (models.GeneratedQR, error) {
	out, err := s.generate(ctx, actor, amount, bookingID)
	switch {
	case err == nil:
		metrics.QRGenerations.WithLabelValues("ok").Inc()
	case domain.IsNotFound(err):
		metrics.QRGenerations.WithLabelValues("no_qris").Inc()
	default:
		metrics.QRGenerations.WithLabelValues("error").Inc()
	}
	return out, err
}

func (s QRISService) generate(ctx context.Context, actor domain.Actor, amount float64, bookingID int64) (models.GeneratedQR, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return models.GeneratedQR{}, err
	}

	agentID := actor.UserID
	if bookingID > 0 {
		b, err := s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return models.GeneratedQR{}, err
		}
		pkg, err := authorizeBooking(ctx, s.Packages, actor, b)
		if err != nil {
			return models.GeneratedQR{}, err
		}
		agentID = pkg.AgentID
	} else if err := requireRole(actor, domain.RoleAgent); err != nil {
		return models.GeneratedQR{}, err
	}

	q, err := s.QRIS.GetActive(ctx, agentID)
	if err != nil {
		return models.GeneratedQR{}, err
	}
	total := utils.TruncateMoney(domain.ApplyQRISFee(amount, q.FeeType, q.FeeValue))
	return models.GeneratedQR{
		FotoQrURL:   q.FotoQrURL,
		Amount:      amount,
		TotalAmount: total,
		FeeType:     q.FeeType,
		FeeValue:    q.FeeValue,
	}, nil
}

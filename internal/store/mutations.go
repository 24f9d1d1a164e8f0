package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"tripbook/internal/client"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

// CreateBooking validates the request locally, prices it and appends the
// server's record on success.
func (s *BookingStore) CreateBooking(ctx context.Context, pkg models.Package, travelDate string, travelers int) (models.Booking, error) {
	date, err := domain.ParseTravelDate(travelDate)
	if err != nil {
		return models.Booking{}, s.reject(err)
	}
	if err := domain.ValidateTravelDate(date, s.Clock.Now()); err != nil {
		return models.Booking{}, s.reject(err)
	}
	if err := domain.ValidateTravelersCount(travelers, pkg.MaxTravelers); err != nil {
		return models.Booking{}, s.reject(err)
	}
	price, err := domain.CalculatePrice(pkg.PricePerPerson, travelers)
	if err != nil {
		return models.Booking{}, s.reject(err)
	}

	s.begin()
	b, err := s.bookings.Create(ctx, client.CreateBookingRequest{
		PackageID:      pkg.ID,
		TravelDate:     date.Format(domain.DateLayout),
		TravelersCount: travelers,
		TotalPrice:     price.TotalPrice,
	})
	if err != nil {
		return models.Booking{}, s.fail(err)
	}
	s.succeed(func(st *State) {
		st.Bookings = append(st.Bookings, b.Clone())
	})
	return b, nil
}

// UpdateBookingStatus patches only status (and completedAt) of the cached record.
// A transition the cached record cannot make is refused without a request.
func (s *BookingStore) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if cached, ok := s.Booking(id); ok {
		if err := cached.Status.Transition(status); err != nil {
			return s.reject(err)
		}
	} else if !status.IsValid() {
		return s.reject(domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown booking status %q", status), Err: domain.ErrInvalidArgument})
	}

	s.begin()
	updated, err := s.bookings.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return s.fail(err)
	}
	s.succeed(func(st *State) {
		patchBooking(st.Bookings, id, func(b *models.Booking) {
			b.Status = updated.Status
			if updated.Status == domain.BookingCompleted {
				b.CompletedAt = updated.CompletedAt
			}
		})
	})
	return nil
}

// UploadPaymentProof checks the file is an image of at most 5MB, uploads it and
// patches the proof fields. Uploads are refused while a proof is under review.
func (s *BookingStore) UploadPaymentProof(ctx context.Context, id int64, filename string, file io.Reader) (models.ProofUpload, error) {
	if cached, ok := s.Booking(id); ok && !cached.PaymentStatus.AcceptsProof() {
		return models.ProofUpload{}, s.reject(domain.ConflictError{
			Resource: "payment",
			Msg:      fmt.Sprintf("proof cannot be uploaded while payment is %s", cached.PaymentStatus),
			Err:      domain.ErrInvalidTransition,
		})
	}
	data, err := io.ReadAll(io.LimitReader(file, domain.MaxProofSize+1))
	if err != nil {
		return models.ProofUpload{}, s.reject(fmt.Errorf("read proof: %w", err))
	}
	if err := domain.ValidateProofFile(mimetype.Detect(data).String(), int64(len(data))); err != nil {
		return models.ProofUpload{}, s.reject(err)
	}

	s.begin()
	up, err := s.payments.UploadProof(ctx, id, filename, bytes.NewReader(data))
	if err != nil {
		return models.ProofUpload{}, s.fail(err)
	}
	s.succeed(func(st *State) {
		patchBooking(st.Bookings, id, func(b *models.Booking) {
			url, at := up.PaymentProofURL, up.PaymentProofUploadedAt
			b.PaymentProofURL = &url
			b.PaymentStatus = up.PaymentStatus
			b.PaymentProofUploadedAt = &at
			b.PaymentRejectionReason = nil
		})
	})
	return up, nil
}

// VerifyPayment patches the payment fields and drops the booking from the queue.
func (s *BookingStore) VerifyPayment(ctx context.Context, id int64) error {
	s.begin()
	updated, err := s.payments.Verify(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	s.succeed(func(st *State) {
		patchBooking(st.Bookings, id, func(b *models.Booking) { applyPayment(b, updated) })
		st.PendingPayments = withoutBooking(st.PendingPayments, id)
	})
	return nil
}

// RejectPayment needs a non-blank reason; it is checked before the request.
func (s *BookingStore) RejectPayment(ctx context.Context, id int64, reason string) error {
	reason, err := domain.NormalizeReason(reason)
	if err != nil {
		return s.reject(err)
	}
	s.begin()
	updated, err := s.payments.Reject(ctx, id, reason)
	if err != nil {
		return s.fail(err)
	}
	s.succeed(func(st *State) {
		patchBooking(st.Bookings, id, func(b *models.Booking) { applyPayment(b, updated) })
		st.PendingPayments = withoutBooking(st.PendingPayments, id)
	})
	return nil
}

func applyPayment(b *models.Booking, from models.Booking) {
	src := from.Clone()
	b.PaymentStatus = src.PaymentStatus
	b.Status = src.Status
	b.PaymentVerifiedAt = src.PaymentVerifiedAt
	b.PaymentRejectionReason = src.PaymentRejectionReason
}

func logSkipped(action string, packageID int64, err error) {
	utils.LogEvent("", "store", action, fmt.Sprintf("package_id=%d skipped: %v", packageID, err))
}

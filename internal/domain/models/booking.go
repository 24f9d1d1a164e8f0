package models

import (
	"time"

	"tripbook/internal/domain"
)

// Booking is one tourist's reservation of a package together with its payment state.
type Booking struct {
	ID                     int64                `json:"id"`
	TouristID              int64                `json:"touristId"`
	PackageID              int64                `json:"packageId"`
	TravelDate             string               `json:"travelDate"`
	TravelersCount         int                  `json:"travelersCount"`
	TotalPrice             float64              `json:"totalPrice"`
	Status                 domain.BookingStatus `json:"status"`
	PaymentStatus          domain.PaymentStatus `json:"paymentStatus"`
	PaymentProofURL        *string              `json:"paymentProofUrl"`
	PaymentRejectionReason *string              `json:"paymentRejectionReason"`
	PaymentProofUploadedAt *time.Time           `json:"paymentProofUploadedAt"`
	PaymentVerifiedAt      *time.Time           `json:"paymentVerifiedAt"`
	CompletedAt            *time.Time           `json:"completedAt"`
	HasReviewed            bool                 `json:"hasReviewed"`
	CreatedAt              time.Time            `json:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt"`
}

// NewBooking returns a booking in its initial state.
func NewBooking(touristID, packageID int64, travelDate string, travelers int, total float64) Booking {
	return Booking{
		TouristID:      touristID,
		PackageID:      packageID,
		TravelDate:     travelDate,
		TravelersCount: travelers,
		TotalPrice:     total,
		Status:         domain.BookingPending,
		PaymentStatus:  domain.PaymentUnpaid,
	}
}

// Clone copies the booking including its pointer fields.
func (b Booking) Clone() Booking {
	out := b
	out.PaymentProofURL = cloneString(b.PaymentProofURL)
	out.PaymentRejectionReason = cloneString(b.PaymentRejectionReason)
	out.PaymentProofUploadedAt = cloneTime(b.PaymentProofUploadedAt)
	out.PaymentVerifiedAt = cloneTime(b.PaymentVerifiedAt)
	out.CompletedAt = cloneTime(b.CompletedAt)
	return out
}

// SetStatus moves the booking machine. completedAt is stamped on completion.
func (b *Booking) SetStatus(to domain.BookingStatus, at time.Time) error {
	if err := b.Status.Transition(to); err != nil {
		return err
	}
	b.Status = to
	if to == domain.BookingCompleted {
		b.CompletedAt = &at
	}
	return nil
}

// SubmitProof records an uploaded payment proof. A proof already under review
// or a verified payment refuses new uploads.
func (b *Booking) SubmitProof(url string, at time.Time) error {
	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return domain.ConflictError{Resource: "booking", Msg: "booking no longer accepts payments", Err: domain.ErrInvalidTransition}
	}
	if err := b.PaymentStatus.Transition(domain.PaymentPendingVerification); err != nil {
		return err
	}
	b.PaymentStatus = domain.PaymentPendingVerification
	b.PaymentProofURL = &url
	b.PaymentProofUploadedAt = &at
	b.PaymentRejectionReason = nil
	return nil
}

// VerifyPayment accepts the pending proof and confirms the booking in the same step.
func (b *Booking) VerifyPayment(at time.Time) error {
	if err := b.PaymentStatus.Transition(domain.PaymentVerified); err != nil {
		return err
	}
	if b.Status != domain.BookingConfirmed {
		if err := b.Status.Transition(domain.BookingConfirmed); err != nil {
			return err
		}
	}
	b.PaymentStatus = domain.PaymentVerified
	b.Status = domain.BookingConfirmed
	b.PaymentVerifiedAt = &at
	b.PaymentRejectionReason = nil
	return nil
}

// RejectPayment refuses the pending proof. The booking status is left alone.
func (b *Booking) RejectPayment(reason string) error {
	r, err := domain.NormalizeReason(reason)
	if err != nil {
		return err
	}
	if err := b.PaymentStatus.Transition(domain.PaymentRejected); err != nil {
		return err
	}
	b.PaymentStatus = domain.PaymentRejected
	b.PaymentRejectionReason = &r
	return nil
}

// MarkReviewed flips hasReviewed once, and only for completed trips.
func (b *Booking) MarkReviewed() error {
	if b.Status != domain.BookingCompleted {
		return domain.ConflictError{Resource: "review", Msg: "only completed bookings can be reviewed", Err: domain.ErrInvalidTransition}
	}
	if b.HasReviewed {
		return domain.ConflictError{Resource: "review", Msg: "booking already reviewed", Err: domain.ErrInvalidTransition}
	}
	b.HasReviewed = true
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

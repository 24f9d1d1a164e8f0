package store

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"tripbook/internal/client"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

// fakeAPI is an in-memory server applying the same lifecycle rules as the real one.
type fakeAPI struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]models.Booking
	history  map[int64][]models.PaymentEvent
	failPkgs map[int64]bool
	err      error
	calls    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rows: map[int64]models.Booking{}, history: map[int64][]models.PaymentEvent{}, failPkgs: map[int64]bool{}}
}

func (f *fakeAPI) seed(b models.Booking) models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	f.rows[b.ID] = b.Clone()
	return b
}

func (f *fakeAPI) enter() error {
	f.mu.Lock()
	f.calls++
	return f.err
}

func (f *fakeAPI) Create(_ context.Context, req client.CreateBookingRequest) (models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return models.Booking{}, err
	}
	f.nextID++
	b := models.NewBooking(7, req.PackageID, req.TravelDate, req.TravelersCount, req.TotalPrice)
	b.ID = f.nextID
	f.rows[b.ID] = b.Clone()
	return b, nil
}

func (f *fakeAPI) UpdateStatus(_ context.Context, id int64, status string) (models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return models.Booking{}, err
	}
	b, ok := f.rows[id]
	if !ok {
		return models.Booking{}, client.ServerError{Status: 404}
	}
	if err := b.SetStatus(domain.BookingStatus(status), now); err != nil {
		return models.Booking{}, client.ServerError{Status: 409, Message: err.Error()}
	}
	f.rows[id] = b.Clone()
	return b, nil
}

func (f *fakeAPI) list(keep func(models.Booking) bool) []models.Booking {
	out := []models.Booking{}
	for id := int64(1); id <= f.nextID; id++ {
		if b, ok := f.rows[id]; ok && keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (f *fakeAPI) List(context.Context) ([]models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	return f.list(func(models.Booking) bool { return true }), nil
}

func (f *fakeAPI) ListByTourist(_ context.Context, touristID int64) ([]models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	return f.list(func(b models.Booking) bool { return b.TouristID == touristID }), nil
}

func (f *fakeAPI) ListByPackage(_ context.Context, packageID int64) ([]models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	if f.failPkgs[packageID] {
		return nil, client.ServerError{Status: 500, Message: fmt.Sprintf("package %d broken", packageID)}
	}
	return f.list(func(b models.Booking) bool { return b.PackageID == packageID }), nil
}

func (f *fakeAPI) UploadProof(_ context.Context, id int64, filename string, file io.Reader) (models.ProofUpload, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return models.ProofUpload{}, err
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return models.ProofUpload{}, err
	}
	b, ok := f.rows[id]
	if !ok {
		return models.ProofUpload{}, client.ServerError{Status: 404}
	}
	url := "/uploads/payment-proofs/" + filename
	if err := b.SubmitProof(url, now); err != nil {
		return models.ProofUpload{}, client.ServerError{Status: 409, Message: err.Error()}
	}
	f.rows[id] = b.Clone()
	f.history[id] = append(f.history[id], models.PaymentEvent{BookingID: id, PaymentStatus: b.PaymentStatus, ProofURL: &url})
	return models.ProofUpload{PaymentProofURL: url, PaymentStatus: b.PaymentStatus, PaymentProofUploadedAt: now}, nil
}

func (f *fakeAPI) review(id int64, apply func(*models.Booking) error) (models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return models.Booking{}, err
	}
	b, ok := f.rows[id]
	if !ok {
		return models.Booking{}, client.ServerError{Status: 404}
	}
	if err := apply(&b); err != nil {
		return models.Booking{}, client.ServerError{Status: 409, Message: err.Error()}
	}
	f.rows[id] = b.Clone()
	f.history[id] = append(f.history[id], models.PaymentEvent{BookingID: id, PaymentStatus: b.PaymentStatus, Reason: b.Clone().PaymentRejectionReason})
	return b, nil
}

func (f *fakeAPI) Verify(_ context.Context, id int64) (models.Booking, error) {
	return f.review(id, func(b *models.Booking) error { return b.VerifyPayment(now) })
}

func (f *fakeAPI) Reject(_ context.Context, id int64, reason string) (models.Booking, error) {
	return f.review(id, func(b *models.Booking) error { return b.RejectPayment(reason) })
}

func (f *fakeAPI) Pending(context.Context) ([]models.Booking, error) {
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	return f.list(func(b models.Booking) bool { return b.PaymentStatus == domain.PaymentPendingVerification }), nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

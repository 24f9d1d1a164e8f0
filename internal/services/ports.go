package services

import (
	"context"
	"io"

	"tripbook/internal/domain/models"
	"tripbook/internal/storage"
	"tripbook/internal/utils"
)

// BookingRepo is implemented by repositories.BookingRepository.
type BookingRepo interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	ListByTourist(ctx context.Context, touristID int64) ([]models.Booking, error)
	ListByPackage(ctx context.Context, packageID int64) ([]models.Booking, error)
	ListByAgent(ctx context.Context, agentID int64) ([]models.Booking, error)
	ListPendingByAgent(ctx context.Context, agentID int64) ([]models.Booking, error)
	ListCompletable(ctx context.Context, before string) ([]models.Booking, error)
	SaveLifecycle(ctx context.Context, prev, next models.Booking, event *models.PaymentEvent) error
}

type PackageRepo interface {
	Create(ctx context.Context, p *models.Package) error
	GetByID(ctx context.Context, id int64) (models.Package, error)
	List(ctx context.Context, agentID int64) ([]models.Package, error)
}

type PaymentEventRepo interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]models.PaymentEvent, error)
}

type QRISRepo interface {
	Activate(ctx context.Context, q *models.QRIS) error
	GetActive(ctx context.Context, agentID int64) (models.QRIS, error)
	ListByAgent(ctx context.Context, agentID int64) ([]models.QRIS, error)
	Delete(ctx context.Context, agentID, id int64) error
}

type ReviewRepo interface {
	CreateForBooking(ctx context.Context, rv *models.Review, prev, next models.Booking) error
	ListByPackage(ctx context.Context, packageID int64) ([]models.Review, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// ImageStore is implemented by storage.LocalStore.
type ImageStore interface {
	SaveImage(ctx context.Context, folder string, r io.Reader, maxSize int64) (storage.Stored, error)
	Remove(ctx context.Context, url string) error
}

// discardUpload removes a stored file whose database row was never written.
// Failures are only logged; the caller already has an error to return.
func discardUpload(ctx context.Context, store ImageStore, url string) {
	if err := store.Remove(context.WithoutCancel(ctx), url); err != nil {
		utils.LogError(utils.RequestIDFrom(ctx), "storage", "discard_upload", err)
	}
}

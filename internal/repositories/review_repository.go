package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "tripbook/internal/config"
	intdb "tripbook/internal/db"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r ReviewRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CreateForBooking inserts the review and flips the booking's has_reviewed flag
// in one transaction. prev/next follow BookingRepository.SaveLifecycle.
func (r ReviewRepository) CreateForBooking(ctx context.Context, rv *models.Review, prev, next models.Booking) error {
	rv.CreatedAt = time.Now().UTC().Truncate(time.Second)
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		if err := updateLifecycle(ctx, tx, prev, next); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reviews (booking_id, tourist_id, package_id, rating, comment, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			rv.BookingID, rv.TouristID, rv.PackageID, rv.Rating, intdb.NullIfEmpty(rv.Comment), rv.CreatedAt,
		)
		if err != nil {
			return domain.InternalError{Msg: "gagal menyimpan ulasan", Err: err}
		}
		rv.ID, err = res.LastInsertId()
		return err
	})
}

func (r ReviewRepository) ListByPackage(ctx context.Context, packageID int64) ([]models.Review, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, booking_id, tourist_id, package_id, rating, COALESCE(comment,''), created_at
		FROM reviews WHERE package_id=? ORDER BY id DESC`, packageID)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil ulasan", Err: err}
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.TouristID, &rv.PackageID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, domain.InternalError{Msg: "gagal membaca ulasan", Err: err}
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

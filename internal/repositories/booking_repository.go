package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "tripbook/internal/config"
	intdb "tripbook/internal/db"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
)

const bookingColumns = `b.id, b.tourist_id, b.package_id, DATE_FORMAT(b.travel_date, '%Y-%m-%d'),
	b.travelers_count, b.total_price, b.status, b.payment_status,
	b.payment_proof_url, b.payment_rejection_reason,
	b.payment_proof_uploaded_at, b.payment_verified_at, b.completed_at,
	b.has_reviewed, b.created_at, b.updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanBooking(s intdb.Scanner) (models.Booking, error) {
	var (
		b                                 models.Booking
		status, paymentStatus             string
		proofURL, reason                  sql.NullString
		uploadedAt, verifiedAt, completed sql.NullTime
	)
	if err := s.Scan(
		&b.ID,
		&b.TouristID,
		&b.PackageID,
		&b.TravelDate,
		&b.TravelersCount,
		&b.TotalPrice,
		&status,
		&paymentStatus,
		&proofURL,
		&reason,
		&uploadedAt,
		&verifiedAt,
		&completed,
		&b.HasReviewed,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return models.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(paymentStatus)
	b.PaymentProofURL = intdb.StringPtr(proofURL)
	b.PaymentRejectionReason = intdb.StringPtr(reason)
	b.PaymentProofUploadedAt = intdb.TimePtr(uploadedAt)
	b.PaymentVerifiedAt = intdb.TimePtr(verifiedAt)
	b.CompletedAt = intdb.TimePtr(completed)
	return b, nil
}

// Create inserts a new booking and fills its ID and timestamps.
func (r BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO bookings (tourist_id, package_id, travel_date, travelers_count, total_price,
			status, payment_status, has_reviewed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		b.TouristID, b.PackageID, b.TravelDate, b.TravelersCount, b.TotalPrice,
		string(b.Status), string(b.PaymentStatus), now, now,
	)
	if err != nil {
		return domain.InternalError{Msg: "gagal menyimpan booking", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Msg: "gagal membaca id booking", Err: err}
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, domain.InternalError{Msg: "gagal membaca booking", Err: err}
	}
	return b, nil
}

func (r BookingRepository) ListByTourist(ctx context.Context, touristID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.tourist_id=? ORDER BY b.id DESC`, touristID)
}

func (r BookingRepository) ListByPackage(ctx context.Context, packageID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.package_id=? ORDER BY b.id DESC`, packageID)
}

// ListByAgent returns bookings on every package the agent owns.
func (r BookingRepository) ListByAgent(ctx context.Context, agentID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings b
		JOIN packages p ON p.id = b.package_id
		WHERE p.agent_id=? ORDER BY b.id DESC`, agentID)
}

// ListPendingByAgent is the agent's verification queue, oldest upload first.
func (r BookingRepository) ListPendingByAgent(ctx context.Context, agentID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings b
		JOIN packages p ON p.id = b.package_id
		WHERE p.agent_id=? AND b.payment_status=?
		ORDER BY b.payment_proof_uploaded_at ASC, b.id ASC`, agentID, string(domain.PaymentPendingVerification))
}

// ListCompletable returns confirmed bookings whose travel date is before the given day.
func (r BookingRepository) ListCompletable(ctx context.Context, before string) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings b
		WHERE b.status=? AND b.travel_date < ? ORDER BY b.id ASC`, string(domain.BookingConfirmed), before)
}

func (r BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil booking", Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, domain.InternalError{Msg: "gagal membaca booking", Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "gagal membaca booking", Err: err}
	}
	return out, nil
}

// SaveLifecycle persists next's mutable lifecycle fields, but only if the row
// still holds prev's status pair. A concurrent writer makes the update miss
// and the call returns a ConflictError. When event is non-nil it is appended
// to the payment history in the same transaction.
func (r BookingRepository) SaveLifecycle(ctx context.Context, prev, next models.Booking, event *models.PaymentEvent) error {
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		if err := updateLifecycle(ctx, tx, prev, next); err != nil {
			return err
		}
		if event != nil {
			return appendPaymentEvent(ctx, tx, event)
		}
		return nil
	})
}

func updateLifecycle(ctx context.Context, q intdb.Querier, prev, next models.Booking) error {
	sets := []string{
		"status=?",
		"payment_status=?",
		"payment_proof_url=?",
		"payment_rejection_reason=?",
		"payment_proof_uploaded_at=?",
		"payment_verified_at=?",
		"completed_at=?",
		"has_reviewed=?",
		"updated_at=?",
	}
	args := []any{
		string(next.Status),
		string(next.PaymentStatus),
		intdb.NullString(next.PaymentProofURL),
		intdb.NullString(next.PaymentRejectionReason),
		intdb.NullTime(next.PaymentProofUploadedAt),
		intdb.NullTime(next.PaymentVerifiedAt),
		intdb.NullTime(next.CompletedAt),
		next.HasReviewed,
		time.Now().UTC().Truncate(time.Second),
		next.ID,
		string(prev.Status),
		string(prev.PaymentStatus),
		prev.HasReviewed,
	}
	res, err := q.ExecContext(ctx,
		`UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id=? AND status=? AND payment_status=? AND has_reviewed=?`,
		args...,
	)
	if err != nil {
		return domain.InternalError{Msg: "gagal update booking", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Msg: "gagal update booking", Err: err}
	}
	if n == 0 {
		return domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("booking %d was changed by another request", next.ID),
		}
	}
	return nil
}

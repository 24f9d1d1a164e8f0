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

// PaymentEventRepository reads the payment history written by BookingRepository.SaveLifecycle.
type PaymentEventRepository struct {
	DB *sql.DB
}

func (r PaymentEventRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PaymentEventRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.PaymentEvent, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, booking_id, payment_status, reason, proof_url, actor_id, created_at
		FROM payment_events
		WHERE booking_id=?
		ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil riwayat pembayaran", Err: err}
	}
	defer rows.Close()

	out := []models.PaymentEvent{}
	for rows.Next() {
		var (
			ev               models.PaymentEvent
			status           string
			reason, proofURL sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.BookingID, &status, &reason, &proofURL, &ev.ActorID, &ev.CreatedAt); err != nil {
			return nil, domain.InternalError{Msg: "gagal membaca riwayat pembayaran", Err: err}
		}
		ev.PaymentStatus = domain.PaymentStatus(status)
		ev.Reason = intdb.StringPtr(reason)
		ev.ProofURL = intdb.StringPtr(proofURL)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func appendPaymentEvent(ctx context.Context, q intdb.Querier, ev *models.PaymentEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO payment_events (booking_id, payment_status, reason, proof_url, actor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.BookingID, string(ev.PaymentStatus), intdb.NullString(ev.Reason), intdb.NullString(ev.ProofURL), ev.ActorID, ev.CreatedAt,
	)
	if err != nil {
		return domain.InternalError{Msg: "gagal menyimpan riwayat pembayaran", Err: err}
	}
	ev.ID, _ = res.LastInsertId()
	return nil
}

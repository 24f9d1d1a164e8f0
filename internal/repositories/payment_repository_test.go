package repositories

import (
	"context"
	"testing"
	"time"

	"tripbook/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPaymentEventRepositoryListByBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM payment_events\\s+WHERE booking_id=\\?").WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "payment_status", "reason", "proof_url", "actor_id", "created_at"}).
			AddRow(int64(1), int64(11), "pending_verification", nil, "/uploads/payment-proofs/a.png", int64(7), at).
			AddRow(int64(2), int64(11), "rejected", "Unclear amount", nil, int64(3), at).
			AddRow(int64(3), int64(11), "pending_verification", nil, "/uploads/payment-proofs/b.png", int64(7), at))

	events, err := PaymentEventRepository{DB: db}.ListByBooking(context.Background(), 11)
	if err != nil {
		t.Fatalf("ListByBooking returned error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[1].PaymentStatus != domain.PaymentRejected || events[1].Reason == nil || *events[1].Reason != "Unclear amount" {
		t.Fatalf("rejection reason lost: %+v", events[1])
	}
	if events[0].Reason != nil || events[0].ProofURL == nil {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

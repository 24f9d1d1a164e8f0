package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tripbook/internal/client"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	bali = models.Package{ID: 1, AgentID: 3, Name: "Bali", PricePerPerson: 1200, MaxTravelers: 10}
	jpeg = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 512)...)
)

func newStore(api *fakeAPI) *BookingStore {
	s := New(api, api)
	s.Clock = clock
	return s
}

// Scenario 1 through the store: priced locally, appended after the server accepts it.
func TestCreateBookingPricesAndAppends(t *testing.T) {
	api := newFakeAPI()
	s := newStore(api)

	b, err := s.CreateBooking(context.Background(), bali, "2026-06-01", 2)
	require.NoError(t, err)
	assert.InDelta(t, 2760, b.TotalPrice, 1e-9)

	st := s.Snapshot()
	require.Len(t, st.Bookings, 1)
	assert.Equal(t, domain.BookingPending, st.Bookings[0].Status)
	assert.Equal(t, domain.PaymentUnpaid, st.Bookings[0].PaymentStatus)
	assert.False(t, st.IsLoading)
	assert.NoError(t, st.Err)
}

func TestCreateBookingValidatesBeforeRequest(t *testing.T) {
	api := newFakeAPI()
	s := newStore(api)

	_, err := s.CreateBooking(context.Background(), bali, "2026-05-03", 2)
	assert.True(t, domain.IsValidation(err))
	_, err = s.CreateBooking(context.Background(), bali, "2026-06-01", 11)
	assert.True(t, domain.IsValidation(err))
	_, err = s.CreateBooking(context.Background(), models.Package{ID: 2}, "2026-06-01", 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	assert.Zero(t, api.callCount())
	st := s.Snapshot()
	assert.Empty(t, st.Bookings)
	assert.Error(t, st.Err)
}

// Scenario 2.
func TestUploadProofMovesToPendingVerification(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	tourist := newStore(api)
	agent := newStore(api)

	b, err := tourist.CreateBooking(ctx, bali, "2026-06-01", 2)
	require.NoError(t, err)

	up, err := tourist.UploadPaymentProof(ctx, b.ID, "proof.jpg", bytes.NewReader(jpeg))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPendingVerification, up.PaymentStatus)

	got, ok := tourist.Booking(b.ID)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentPendingVerification, got.PaymentStatus)
	require.NotNil(t, got.PaymentProofURL)
	assert.Equal(t, up.PaymentProofURL, *got.PaymentProofURL)
	require.NotNil(t, got.PaymentProofUploadedAt)

	require.NoError(t, agent.FetchPendingPayments(ctx))
	pending := agent.Snapshot().PendingPayments
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestUploadProofRefusedWhilePendingVerification(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := newStore(api)
	b, err := s.CreateBooking(ctx, bali, "2026-06-01", 2)
	require.NoError(t, err)
	_, err = s.UploadPaymentProof(ctx, b.ID, "proof.jpg", bytes.NewReader(jpeg))
	require.NoError(t, err)
	calls := api.callCount()

	_, err = s.UploadPaymentProof(ctx, b.ID, "again.jpg", bytes.NewReader(jpeg))
	assert.True(t, domain.IsInvalidTransition(err))
	assert.Equal(t, calls, api.callCount(), "no request for a refused upload")
}

func TestUploadProofValidatesFile(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := newStore(api)
	b := api.seed(models.NewBooking(7, 1, "2026-06-01", 2, 2760))

	_, err := s.UploadPaymentProof(ctx, b.ID, "proof.pdf", strings.NewReader("%PDF-1.4 invoice"))
	assert.True(t, domain.IsValidation(err))

	big := append(append([]byte{}, jpeg...), bytes.Repeat([]byte{0}, int(domain.MaxProofSize))...)
	_, err = s.UploadPaymentProof(ctx, b.ID, "big.jpg", bytes.NewReader(big))
	assert.True(t, domain.IsValidation(err))

	assert.Zero(t, api.callCount())
}

// Scenario 3.
func TestVerifyPaymentConfirmsAndLeavesQueue(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := api.seed(models.NewBooking(7, 1, "2026-06-01", 2, 2760))
	s := newStore(api)
	require.NoError(t, s.FetchAllBookings(ctx))
	_, err := s.UploadPaymentProof(ctx, b.ID, "proof.jpg", bytes.NewReader(jpeg))
	require.NoError(t, err)
	require.NoError(t, s.FetchPendingPayments(ctx))
	require.Len(t, s.Snapshot().PendingPayments, 1)

	require.NoError(t, s.VerifyPayment(ctx, b.ID))

	st := s.Snapshot()
	assert.Empty(t, st.PendingPayments)
	got, _ := s.Booking(b.ID)
	assert.Equal(t, domain.PaymentVerified, got.PaymentStatus)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Nil(t, got.PaymentRejectionReason)
	assert.NotNil(t, got.PaymentVerifiedAt)
}

// Scenario 4.
func TestRejectThenReupload(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := api.seed(models.NewBooking(7, 1, "2026-06-01", 2, 2760))
	s := newStore(api)
	require.NoError(t, s.FetchAllBookings(ctx))
	_, err := s.UploadPaymentProof(ctx, b.ID, "proof.jpg", bytes.NewReader(jpeg))
	require.NoError(t, err)
	require.NoError(t, s.FetchPendingPayments(ctx))

	assert.True(t, domain.IsValidation(s.RejectPayment(ctx, b.ID, "  ")))
	require.NoError(t, s.RejectPayment(ctx, b.ID, "Unclear amount"))

	got, _ := s.Booking(b.ID)
	assert.Equal(t, domain.PaymentRejected, got.PaymentStatus)
	require.NotNil(t, got.PaymentRejectionReason)
	assert.Equal(t, "Unclear amount", *got.PaymentRejectionReason)
	assert.Equal(t, domain.BookingPending, got.Status)
	assert.Empty(t, s.Snapshot().PendingPayments)

	_, err = s.UploadPaymentProof(ctx, b.ID, "proof2.jpg", bytes.NewReader(jpeg))
	require.NoError(t, err)
	got, _ = s.Booking(b.ID)
	assert.Equal(t, domain.PaymentPendingVerification, got.PaymentStatus)
	assert.Nil(t, got.PaymentRejectionReason)

	require.NoError(t, s.FetchPendingPayments(ctx))
	assert.Len(t, s.Snapshot().PendingPayments, 1)

	hist := api.history[b.ID]
	require.Len(t, hist, 3)
	require.NotNil(t, hist[1].Reason)
	assert.Equal(t, "Unclear amount", *hist[1].Reason)
}

// Scenario 5.
func TestCancelTwice(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := newStore(api)
	b, err := s.CreateBooking(ctx, bali, "2026-06-01", 1)
	require.NoError(t, err)

	require.NoError(t, s.UpdateBookingStatus(ctx, b.ID, domain.BookingCancelled))
	got, _ := s.Booking(b.ID)
	assert.Equal(t, domain.BookingCancelled, got.Status)
	calls := api.callCount()

	err = s.UpdateBookingStatus(ctx, b.ID, domain.BookingCancelled)
	assert.True(t, domain.IsInvalidTransition(err))
	assert.Equal(t, calls, api.callCount())
}

func TestUpdateStatusUnknownBookingGoesToServer(t *testing.T) {
	api := newFakeAPI()
	s := newStore(api)
	err := s.UpdateBookingStatus(context.Background(), 99, domain.BookingCancelled)
	assert.True(t, client.IsStatus(err, 404))
	assert.Equal(t, 1, api.callCount())
}

func TestFailedMutationLeavesStateAndRecordsError(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := api.seed(models.NewBooking(7, 1, "2026-06-01", 2, 2760))
	s := newStore(api)
	require.NoError(t, s.FetchAllBookings(ctx))
	before := s.Snapshot()

	boom := client.NetworkError{Op: "PUT", Err: errors.New("connection refused")}
	api.err = boom
	err := s.UpdateBookingStatus(ctx, b.ID, domain.BookingCancelled)
	assert.ErrorIs(t, err, boom.Err)

	after := s.Snapshot()
	assert.Equal(t, before.Bookings, after.Bookings)
	assert.False(t, after.IsLoading)
	assert.Error(t, after.Err)

	api.err = nil
	require.NoError(t, s.FetchAllBookings(ctx))
	assert.NoError(t, s.Snapshot().Err, "a new call clears the previous error")
}

func TestFetchAgentBookingsSkipsFailuresKeepsOrder(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	for _, pkg := range []int64{3, 1, 2, 3} {
		api.seed(models.NewBooking(7, pkg, "2026-06-01", 1, 1150))
	}
	api.failPkgs[2] = true
	s := newStore(api)
	s.FanOut = 2

	require.NoError(t, s.FetchAgentBookings(ctx, []int64{3, 2, 1}))

	st := s.Snapshot()
	got := make([]int64, 0, len(st.Bookings))
	for _, b := range st.Bookings {
		got = append(got, b.PackageID)
	}
	assert.Equal(t, []int64{3, 3, 1}, got)
	assert.NoError(t, st.Err)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.seed(models.NewBooking(7, 1, "2026-06-01", 2, 2760))
	s := newStore(api)
	require.NoError(t, s.FetchAllBookings(ctx))

	snap := s.Snapshot()
	snap.Bookings[0].Status = domain.BookingCompleted
	reason := "tampered"
	snap.Bookings[0].PaymentRejectionReason = &reason

	fresh := s.Snapshot()
	assert.Equal(t, domain.BookingPending, fresh.Bookings[0].Status)
	assert.Nil(t, fresh.Bookings[0].PaymentRejectionReason)
}

func TestSubscribeNotifiesUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := newStore(api)

	var (
		mu     sync.Mutex
		states []State
	)
	unsubscribe := s.Subscribe(func(st State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, st)
	})

	_, err := s.CreateBooking(ctx, bali, "2026-06-01", 1)
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, states, 2, "begin and success")
	assert.True(t, states[0].IsLoading)
	assert.False(t, states[1].IsLoading)
	assert.Len(t, states[1].Bookings, 1)
	mu.Unlock()

	unsubscribe()
	require.NoError(t, s.FetchAllBookings(ctx))
	mu.Lock()
	assert.Len(t, states, 2)
	mu.Unlock()
}

func TestSubscriberMayReadStore(t *testing.T) {
	api := newFakeAPI()
	s := newStore(api)
	seen := 0
	s.Subscribe(func(State) {
		seen = len(s.Snapshot().Bookings)
	})
	_, err := s.CreateBooking(context.Background(), bali, "2026-06-01", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

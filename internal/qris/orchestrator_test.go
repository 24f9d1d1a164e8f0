package qris

import (
	"context"
	"errors"
	"fmt"
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

type fakeGen struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (f *fakeGen) Generate(_ context.Context, amount float64, bookingID int64) (models.GeneratedQR, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, bookingID)
	if f.err != nil {
		return models.GeneratedQR{}, f.err
	}
	return models.GeneratedQR{
		FotoQrURL:   "/uploads/qris/agent3.png",
		Amount:      amount,
		TotalAmount: amount + 200,
		FeeType:     domain.FeeRupiah,
		FeeValue:    200,
	}, nil
}

func (f *fakeGen) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func booking(id int64, pay domain.PaymentStatus) models.Booking {
	b := models.NewBooking(7, 1, "2026-06-01", 2, 2760)
	b.ID = id
	b.PaymentStatus = pay
	return b
}

func TestEnsureGeneratesOnce(t *testing.T) {
	gen := &fakeGen{}
	o := NewOrchestrator(gen)
	ctx := context.Background()

	require.NoError(t, o.Ensure(ctx, booking(1, domain.PaymentUnpaid)))
	require.NoError(t, o.Ensure(ctx, booking(1, domain.PaymentUnpaid)))
	assert.Equal(t, 1, gen.count())

	st := o.State()
	assert.Equal(t, "/uploads/qris/agent3.png", st.QRImageURL)
	assert.InDelta(t, 2760, st.Amount, 1e-9)
	assert.InDelta(t, 2960, st.TotalAmount, 1e-9)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
}

func TestEnsureSkipsVerifiedPayment(t *testing.T) {
	gen := &fakeGen{}
	o := NewOrchestrator(gen)
	require.NoError(t, o.Ensure(context.Background(), booking(1, domain.PaymentVerified)))
	assert.Zero(t, gen.count())
}

func TestEnsureNewBookingResets(t *testing.T) {
	gen := &fakeGen{}
	o := NewOrchestrator(gen)
	ctx := context.Background()
	require.NoError(t, o.Ensure(ctx, booking(1, domain.PaymentUnpaid)))
	require.NoError(t, o.Ensure(ctx, booking(2, domain.PaymentRejected)))
	assert.Equal(t, []int64{1, 2}, gen.calls)
}

func TestRegenerateAlwaysCalls(t *testing.T) {
	gen := &fakeGen{}
	o := NewOrchestrator(gen)
	ctx := context.Background()

	assert.True(t, domain.IsValidation(o.Regenerate(ctx)))

	require.NoError(t, o.Ensure(ctx, booking(1, domain.PaymentUnpaid)))
	require.NoError(t, o.Regenerate(ctx))
	require.NoError(t, o.Regenerate(ctx))
	assert.Equal(t, 3, gen.count())
}

func TestMissingQRISIsReported(t *testing.T) {
	gen := &fakeGen{err: client.ServerError{Status: 404, Code: client.CodeNoActiveQRIS, Message: "agen belum mengunggah QRIS aktif"}}
	o := NewOrchestrator(gen)

	err := o.Ensure(context.Background(), booking(1, domain.PaymentUnpaid))
	assert.ErrorIs(t, err, ErrNoActiveQRIS)
	assert.ErrorIs(t, o.State().Err, ErrNoActiveQRIS)
	assert.Empty(t, o.State().QRImageURL)
}

func TestOtherFailureIsRetryable(t *testing.T) {
	netErr := errors.New("connection reset")
	gen := &fakeGen{err: client.NetworkError{Op: "POST /api/qris/generate", Err: netErr}}
	o := NewOrchestrator(gen)
	ctx := context.Background()

	err := o.Ensure(ctx, booking(1, domain.PaymentUnpaid))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoActiveQRIS)
	assert.ErrorIs(t, err, netErr)

	gen.mu.Lock()
	gen.err = nil
	gen.mu.Unlock()
	require.NoError(t, o.Ensure(ctx, booking(1, domain.PaymentUnpaid)), "a failed attempt does not count as generated")
	assert.NoError(t, o.State().Err)
	assert.Equal(t, 2, gen.count())
}

func TestMissingBookingIsNotReportedAsMissingQRIS(t *testing.T) {
	gen := &fakeGen{err: client.ServerError{Status: 404, Code: "not_found", Message: "booking not found"}}
	o := NewOrchestrator(gen)

	err := o.Ensure(context.Background(), booking(1, domain.PaymentUnpaid))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoActiveQRIS)
	assert.True(t, client.IsStatus(err, 404))
}

// blockingGen holds each request until its booking is released.
type blockingGen struct {
	mu      sync.Mutex
	calls   int
	started chan int64
	release map[int64]chan struct{}
}

func newBlockingGen(ids ...int64) *blockingGen {
	g := &blockingGen{started: make(chan int64, 8), release: map[int64]chan struct{}{}}
	for _, id := range ids {
		g.release[id] = make(chan struct{})
	}
	return g
}

func (g *blockingGen) Generate(ctx context.Context, amount float64, bookingID int64) (models.GeneratedQR, error) {
	g.mu.Lock()
	g.calls++
	wait := g.release[bookingID]
	g.mu.Unlock()
	g.started <- bookingID
	select {
	case <-wait:
	case <-ctx.Done():
		return models.GeneratedQR{}, ctx.Err()
	}
	return models.GeneratedQR{FotoQrURL: fmt.Sprintf("/uploads/qris/%d.png", bookingID), Amount: amount, TotalAmount: amount}, nil
}

func (g *blockingGen) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestLateResponseKeepsNewBookingLoading(t *testing.T) {
	ctx := context.Background()
	gen := newBlockingGen(1, 2)
	o := NewOrchestrator(gen)

	ensure := func(id int64) chan struct{} {
		done := make(chan struct{})
		go func() {
			defer close(done)
			assert.NoError(t, o.Ensure(ctx, booking(id, domain.PaymentUnpaid)))
		}()
		return done
	}

	first := ensure(1)
	require.Equal(t, int64(1), <-gen.started)
	second := ensure(2)
	require.Equal(t, int64(2), <-gen.started)

	// booking 1 answers after the switch; booking 2 is still in flight
	close(gen.release[1])
	<-first
	assert.True(t, o.State().Loading)
	assert.Empty(t, o.State().QRImageURL)
	require.NoError(t, o.Regenerate(ctx))
	assert.Equal(t, 2, gen.count(), "no second request while one is in flight")

	close(gen.release[2])
	<-second
	st := o.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "/uploads/qris/2.png", st.QRImageURL)
}

// Package store keeps the client-side cache of bookings and the agent's
// pending-payment queue. Local records change only after the server accepted
// the change; readers get copies through Snapshot or Subscribe.
package store

import (
	"context"
	"io"
	"sync"

	"github.com/samber/lo"

	"tripbook/internal/client"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

// BookingAPI is the booking half of the REST client.
type BookingAPI interface {
	Create(ctx context.Context, req client.CreateBookingRequest) (models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status string) (models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	ListByTourist(ctx context.Context, touristID int64) ([]models.Booking, error)
	ListByPackage(ctx context.Context, packageID int64) ([]models.Booking, error)
}

// PaymentAPI is the payment half of the REST client.
type PaymentAPI interface {
	UploadProof(ctx context.Context, bookingID int64, filename string, file io.Reader) (models.ProofUpload, error)
	Verify(ctx context.Context, bookingID int64) (models.Booking, error)
	Reject(ctx context.Context, bookingID int64, reason string) (models.Booking, error)
	Pending(ctx context.Context) ([]models.Booking, error)
}

// State is what subscribers see.
type State struct {
	Bookings        []models.Booking
	PendingPayments []models.Booking
	IsLoading       bool
	Err             error
}

func (s State) clone() State {
	return State{
		Bookings:        cloneBookings(s.Bookings),
		PendingPayments: cloneBookings(s.PendingPayments),
		IsLoading:       s.IsLoading,
		Err:             s.Err,
	}
}

func cloneBookings(in []models.Booking) []models.Booking {
	return lo.Map(in, func(b models.Booking, _ int) models.Booking { return b.Clone() })
}

const defaultFanOut = 4

type BookingStore struct {
	bookings BookingAPI
	payments PaymentAPI

	// Clock drives the travel-date window check.
	Clock utils.Clock
	// FanOut bounds concurrent per-package requests in FetchAgentBookings.
	FanOut int

	mu       sync.Mutex
	state    State
	inflight int
	subs     map[int]func(State)
	nextSub  int
}

func New(bookings BookingAPI, payments PaymentAPI) *BookingStore {
	return &BookingStore{
		bookings: bookings,
		payments: payments,
		FanOut:   defaultFanOut,
		subs:     map[int]func(State){},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *BookingStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Booking returns a copy of one cached booking.
func (s *BookingStore) Booking(id int64) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := lo.Find(s.state.Bookings, func(b models.Booking) bool { return b.ID == id })
	if !ok {
		return models.Booking{}, false
	}
	return b.Clone(), true
}

// Subscribe registers fn to be called with a fresh copy after every state
// change. The returned func removes the subscription.
func (s *BookingStore) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// update applies fn under the lock and notifies subscribers after releasing it.
func (s *BookingStore) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	subs := lo.Values(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap.clone())
	}
}

func (s *BookingStore) begin() {
	s.update(func(st *State) {
		s.inflight++
		st.IsLoading = true
		st.Err = nil
	})
}

// succeed ends a call and applies its patch.
func (s *BookingStore) succeed(patch func(*State)) {
	s.update(func(st *State) {
		if patch != nil {
			patch(st)
		}
		s.inflight--
		st.IsLoading = s.inflight > 0
	})
}

// fail ends a call, records err and hands it back for the caller to return.
func (s *BookingStore) fail(err error) error {
	s.update(func(st *State) {
		s.inflight--
		st.IsLoading = s.inflight > 0
		st.Err = err
	})
	return err
}

// reject records an error found before any request was sent.
func (s *BookingStore) reject(err error) error {
	s.update(func(st *State) { st.Err = err })
	return err
}

// patchBooking applies fn to the cached booking with the given id, if present.
func patchBooking(list []models.Booking, id int64, fn func(*models.Booking)) {
	_, idx, ok := lo.FindIndexOf(list, func(b models.Booking) bool { return b.ID == id })
	if ok {
		fn(&list[idx])
	}
}

func withoutBooking(list []models.Booking, id int64) []models.Booking {
	return lo.Filter(list, func(b models.Booking, _ int) bool { return b.ID != id })
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/storage"
)

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type memBookings struct {
	mu     sync.Mutex
	next   int64
	rows   map[int64]models.Booking
	events []models.PaymentEvent
	pkgs   *memPackages
}

func newMemBookings(pkgs *memPackages) *memBookings {
	return &memBookings{rows: map[int64]models.Booking{}, pkgs: pkgs}
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	b.ID = m.next
	b.CreatedAt = testNow
	b.UpdatedAt = testNow
	m.rows[b.ID] = b.Clone()
	return nil
}

func (m *memBookings) put(b models.Booking) models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == 0 {
		m.next++
		b.ID = m.next
	}
	m.rows[b.ID] = b.Clone()
	return b
}

func (m *memBookings) GetByID(_ context.Context, id int64) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b.Clone(), nil
}

func (m *memBookings) filter(keep func(models.Booking) bool) []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.rows {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memBookings) ListByTourist(_ context.Context, touristID int64) ([]models.Booking, error) {
	return m.filter(func(b models.Booking) bool { return b.TouristID == touristID }), nil
}

func (m *memBookings) ListByPackage(_ context.Context, packageID int64) ([]models.Booking, error) {
	return m.filter(func(b models.Booking) bool { return b.PackageID == packageID }), nil
}

func (m *memBookings) ListByAgent(_ context.Context, agentID int64) ([]models.Booking, error) {
	return m.filter(func(b models.Booking) bool { return m.pkgs.owner(b.PackageID) == agentID }), nil
}

func (m *memBookings) ListPendingByAgent(_ context.Context, agentID int64) ([]models.Booking, error) {
	return m.filter(func(b models.Booking) bool {
		return m.pkgs.owner(b.PackageID) == agentID && b.PaymentStatus == domain.PaymentPendingVerification
	}), nil
}

func (m *memBookings) ListCompletable(_ context.Context, before string) ([]models.Booking, error) {
	return m.filter(func(b models.Booking) bool {
		return b.Status == domain.BookingConfirmed && b.TravelDate < before
	}), nil
}

func (m *memBookings) SaveLifecycle(_ context.Context, prev, next models.Booking, event *models.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(prev, next, event)
}

func (m *memBookings) saveLocked(prev, next models.Booking, event *models.PaymentEvent) error {
	cur, ok := m.rows[prev.ID]
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	if cur.Status != prev.Status || cur.PaymentStatus != prev.PaymentStatus || cur.HasReviewed != prev.HasReviewed {
		return domain.ConflictError{Resource: "booking", Msg: "booking was changed by another request"}
	}
	m.rows[prev.ID] = next.Clone()
	if event != nil {
		e := *event
		e.ID = int64(len(m.events) + 1)
		m.events = append(m.events, e)
	}
	return nil
}

func (m *memBookings) ListByBooking(_ context.Context, bookingID int64) ([]models.PaymentEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PaymentEvent{}
	for _, e := range m.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memPackages struct {
	mu   sync.Mutex
	rows map[int64]models.Package
}

func newMemPackages(pkgs ...models.Package) *memPackages {
	m := &memPackages{rows: map[int64]models.Package{}}
	for _, p := range pkgs {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memPackages) owner(id int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].AgentID
}

func (m *memPackages) Create(_ context.Context, p *models.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = int64(len(m.rows) + 1)
	m.rows[p.ID] = *p
	return nil
}

func (m *memPackages) GetByID(_ context.Context, id int64) (models.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return models.Package{}, domain.NotFoundError{Resource: "package"}
	}
	return p, nil
}

func (m *memPackages) List(_ context.Context, agentID int64) ([]models.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Package{}
	for _, p := range m.rows {
		if agentID == 0 || p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memQRIS struct {
	rows []models.QRIS
}

func (m *memQRIS) Activate(_ context.Context, q *models.QRIS) error {
	for i := range m.rows {
		if m.rows[i].AgentID == q.AgentID {
			m.rows[i].IsActive = false
		}
	}
	q.ID = int64(len(m.rows) + 1)
	q.IsActive = true
	m.rows = append(m.rows, *q)
	return nil
}

func (m *memQRIS) GetActive(_ context.Context, agentID int64) (models.QRIS, error) {
	for _, q := range m.rows {
		if q.AgentID == agentID && q.IsActive {
			return q, nil
		}
	}
	return models.QRIS{}, domain.NotFoundError{Resource: "active QRIS", Err: domain.ErrNoActiveQRIS}
}

func (m *memQRIS) ListByAgent(_ context.Context, agentID int64) ([]models.QRIS, error) {
	out := []models.QRIS{}
	for _, q := range m.rows {
		if q.AgentID == agentID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQRIS) Delete(_ context.Context, agentID, id int64) error {
	for i, q := range m.rows {
		if q.ID == id && q.AgentID == agentID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "QRIS"}
}

type memReviews struct {
	bookings *memBookings
	rows     []models.Review
}

func (m *memReviews) CreateForBooking(_ context.Context, rv *models.Review, prev, next models.Booking) error {
	m.bookings.mu.Lock()
	defer m.bookings.mu.Unlock()
	if err := m.bookings.saveLocked(prev, next, nil); err != nil {
		return err
	}
	rv.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *rv)
	return nil
}

func (m *memReviews) ListByPackage(_ context.Context, packageID int64) ([]models.Review, error) {
	out := []models.Review{}
	for _, rv := range m.rows {
		if rv.PackageID == packageID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type memUsers struct {
	rows []models.User
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	for _, x := range m.rows {
		if x.Email == u.Email {
			return domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar"}
		}
	}
	u.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *u)
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *memUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	for _, u := range m.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

// memImages records saved uploads without sniffing.
type memImages struct {
	saved map[string][]byte
	err   error
}

func (m *memImages) SaveImage(_ context.Context, folder string, r io.Reader, _ int64) (storage.Stored, error) {
	if m.err != nil {
		return storage.Stored{}, m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return storage.Stored{}, err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	url := fmt.Sprintf("/uploads/%s/%d.png", folder, len(m.saved)+1)
	m.saved[url] = buf.Bytes()
	return storage.Stored{URL: url, ContentType: "image/png", Size: int64(buf.Len())}, nil
}

func (m *memImages) Remove(_ context.Context, url string) error {
	delete(m.saved, url)
	return nil
}

var (
	tourist      = domain.Actor{UserID: 7, Role: domain.RoleTourist}
	otherTourist = domain.Actor{UserID: 8, Role: domain.RoleTourist}
	agent        = domain.Actor{UserID: 3, Role: domain.RoleAgent}
	otherAgent   = domain.Actor{UserID: 4, Role: domain.RoleAgent}

	bali = models.Package{ID: 1, AgentID: agent.UserID, Name: "Bali Trip", Destination: "Bali", PricePerPerson: 1200, MaxTravelers: 10}
)

type fixture struct {
	packages *memPackages
	bookings *memBookings
	images   *memImages
}

func newFixture() fixture {
	pkgs := newMemPackages(bali)
	return fixture{packages: pkgs, bookings: newMemBookings(pkgs), images: &memImages{}}
}

func (f fixture) bookingService() BookingService {
	return BookingService{Bookings: f.bookings, Packages: f.packages, Clock: fixedClock}
}

func (f fixture) paymentService() PaymentService {
	return PaymentService{Bookings: f.bookings, Packages: f.packages, Events: f.bookings, Store: f.images, Clock: fixedClock}
}

func (f fixture) seed(status domain.BookingStatus, payment domain.PaymentStatus) models.Booking {
	b := models.NewBooking(tourist.UserID, bali.ID, "2026-06-01", 2, 2760)
	b.Status = status
	b.PaymentStatus = payment
	return f.bookings.put(b)
}

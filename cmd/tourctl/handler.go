package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"tripbook/internal/client"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/qris"
	"tripbook/internal/store"
	"tripbook/internal/utils"
)

type Handler struct {
	api   *client.Client
	store *store.BookingStore
}

func NewHandler(baseURL, sessionPath string) (*Handler, error) {
	if err := os.MkdirAll(filepath.Dir(sessionPath), 0o700); err != nil {
		return nil, err
	}
	session, err := client.LoadSession(sessionPath)
	if err != nil {
		return nil, err
	}
	api := client.New(baseURL, session)
	api.OnUnauthorized = func() {
		fmt.Fprintln(os.Stderr, "Sesi berakhir, silakan login kembali.")
	}
	return &Handler{
		api:   api,
		store: store.New(api.Bookings(), api.Payments()),
	}, nil
}

func (h *Handler) Login(c *cli.Context) error {
	u, err := h.api.Auth().Login(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", u.Name, u.Role)
	return nil
}

func (h *Handler) Logout(*cli.Context) error {
	return h.api.Auth().Logout()
}

func (h *Handler) Register(c *cli.Context) error {
	u, err := h.api.Auth().Register(c.Context, client.RegisterRequest{
		Name:     c.String("name"),
		Email:    c.String("email"),
		Password: c.String("password"),
		Role:     c.String("role"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Registered user %d, run `tourctl login` next\n", u.ID)
	return nil
}

func (h *Handler) Packages(c *cli.Context) error {
	list, err := h.api.Catalog().Packages(c.Context, c.Int64("agent"))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESTINATION\tPRICE/PERSON\tMAX")
	for _, p := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Destination, utils.FormatRupiah(p.PricePerPerson), p.MaxTravelers)
	}
	return w.Flush()
}

func (h *Handler) Book(c *cli.Context) error {
	pkg, err := h.api.Catalog().Package(c.Context, c.Int64("package"))
	if err != nil {
		return err
	}
	b, err := h.store.CreateBooking(c.Context, pkg, c.String("date"), c.Int("travelers"))
	if err != nil {
		return err
	}
	fmt.Printf("Booking %d created, total %s. Pay via `tourctl qr %d`.\n", b.ID, utils.FormatRupiah(b.TotalPrice), b.ID)
	return nil
}

func (h *Handler) Bookings(c *cli.Context) error {
	if err := h.loadOwn(c.Context); err != nil {
		return err
	}
	return printBookings(h.store.Snapshot().Bookings)
}

func (h *Handler) AgentBookings(c *cli.Context) error {
	me := h.api.Session.User()
	if me.Role != domain.RoleAgent {
		return domain.ForbiddenError{Msg: "agent-bookings needs an agent session"}
	}
	pkgs, err := h.api.Catalog().Packages(c.Context, me.ID)
	if err != nil {
		return err
	}
	ids := lo.Map(pkgs, func(p models.Package, _ int) int64 { return p.ID })
	if err := h.store.FetchAgentBookings(c.Context, ids); err != nil {
		return err
	}
	return printBookings(h.store.Snapshot().Bookings)
}

func (h *Handler) Cancel(c *cli.Context) error {
	return h.setStatus(c, domain.BookingCancelled)
}

func (h *Handler) Confirm(c *cli.Context) error {
	return h.setStatus(c, domain.BookingConfirmed)
}

func (h *Handler) setStatus(c *cli.Context, status domain.BookingStatus) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	if err := h.loadOwn(c.Context); err != nil {
		return err
	}
	if err := h.store.UpdateBookingStatus(c.Context, id, status); err != nil {
		return err
	}
	fmt.Printf("Booking %d is now %s\n", id, status)
	return nil
}

func (h *Handler) UploadProof(c *cli.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	path := c.Args().Get(1)
	if path == "" {
		return domain.ValidationError{Field: "file", Msg: "image path is required", Err: domain.ErrInvalidArgument}
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := h.loadOwn(c.Context); err != nil {
		return err
	}
	up, err := h.store.UploadPaymentProof(c.Context, id, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Printf("Proof uploaded, payment is %s\n", up.PaymentStatus)
	return nil
}

func (h *Handler) QR(c *cli.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	b, err := h.api.Bookings().Get(c.Context, id)
	if err != nil {
		return err
	}
	if b.PaymentStatus == domain.PaymentVerified {
		fmt.Println("Payment already verified.")
		return nil
	}

	o := qris.NewOrchestrator(h.api.QRIS())
	err = o.Ensure(c.Context, b)
	if err != nil && !errors.Is(err, qris.ErrNoActiveQRIS) && !client.IsStatus(err, 404) {
		// one retry for transient failures
		err = o.Regenerate(c.Context)
	}
	if err != nil {
		return err
	}
	st := o.State()
	fmt.Printf("QR image:  %s%s\n", h.api.BaseURL, st.QRImageURL)
	fmt.Printf("Amount:    %s\n", utils.FormatRupiah(st.Amount))
	fmt.Printf("Total due: %s\n", utils.FormatRupiah(st.TotalAmount))
	return nil
}

func (h *Handler) Pending(c *cli.Context) error {
	if err := h.store.FetchPendingPayments(c.Context); err != nil {
		return err
	}
	return printBookings(h.store.Snapshot().PendingPayments)
}

func (h *Handler) Verify(c *cli.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	if err := h.store.VerifyPayment(c.Context, id); err != nil {
		return err
	}
	fmt.Printf("Payment of booking %d verified\n", id)
	return nil
}

func (h *Handler) Reject(c *cli.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	if err := h.store.RejectPayment(c.Context, id, c.String("reason")); err != nil {
		return err
	}
	fmt.Printf("Payment of booking %d rejected\n", id)
	return nil
}

func (h *Handler) Invoice(c *cli.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}
	pdf, err := h.api.Bookings().Invoice(c.Context, id)
	if err != nil {
		return err
	}
	out := c.String("out")
	if out == "" {
		out = fmt.Sprintf("INVOICE_%d.pdf", id)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", out)
	return nil
}

// loadOwn fills the store with the bookings the session may act on, so local
// transition checks run before any mutation.
func (h *Handler) loadOwn(ctx context.Context) error {
	me := h.api.Session.User()
	switch me.Role {
	case domain.RoleTourist:
		return h.store.FetchTouristBookings(ctx, me.ID)
	case domain.RoleAgent:
		// the list endpoint is already scoped to the agent's packages
		return h.store.FetchAllBookings(ctx)
	default:
		return domain.UnauthorizedError{Msg: "not logged in, run `tourctl login` first"}
	}
}

func bookingID(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: "bookingId", Msg: "a positive booking id is required", Err: domain.ErrInvalidArgument}
	}
	return id, nil
}

func printBookings(list []models.Booking) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPACKAGE\tDATE\tPAX\tTOTAL\tSTATUS\tPAYMENT\tNOTE")
	for _, b := range list {
		note := ""
		if b.PaymentRejectionReason != nil {
			note = *b.PaymentRejectionReason
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			b.ID, b.PackageID, b.TravelDate, b.TravelersCount, utils.FormatRupiah(b.TotalPrice), b.Status, b.PaymentStatus, note)
	}
	return w.Flush()
}

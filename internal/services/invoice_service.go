package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

// InvoiceService renders PDF documents for bookings with a verified payment.
type InvoiceService struct {
	Bookings BookingRepo
	Packages PackageRepo
	Users    UserRepo
	Clock    utils.Clock
	Loader   func(context.Context, int64) (bookingDocData, error)
}

type bookingDocData struct {
	Booking     models.Booking
	Package     models.Package
	TouristName string
	Email       string
}

// GenerateInvoice returns the invoice PDF and its filename.
func (s InvoiceService) GenerateInvoice(ctx context.Context, actor domain.Actor, bookingID int64) ([]byte, string, error) {
	data, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildInvoicePDF(data, s.Clock.Now().Format("2006-01-02 15:04"))
}

// GenerateVoucher returns the travel voucher shown at departure.
func (s InvoiceService) GenerateVoucher(ctx context.Context, actor domain.Actor, bookingID int64) ([]byte, string, error) {
	data, err := s.load(ctx, actor, bookingID)
	if err != nil {
		return nil, "", err
	}
	if data.Booking.Status != domain.BookingConfirmed && data.Booking.Status != domain.BookingCompleted {
		return nil, "", domain.ConflictError{Resource: "voucher", Msg: "booking belum dikonfirmasi"}
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "docs", "generate_voucher", fmt.Sprintf("booking_id=%d", bookingID))
	return buildVoucherPDF(data)
}

func (s InvoiceService) load(ctx context.Context, actor domain.Actor, bookingID int64) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return bookingDocData{}, err
	}
	pkg, err := authorizeBooking(ctx, s.Packages, actor, b)
	if err != nil {
		return bookingDocData{}, err
	}
	if b.PaymentStatus != domain.PaymentVerified {
		return bookingDocData{}, domain.ForbiddenError{Msg: "pembayaran belum diverifikasi"}
	}
	out := bookingDocData{Booking: b, Package: pkg}
	if u, err := s.Users.GetByID(ctx, b.TouristID); err == nil {
		out.TouristName = u.Name
		out.Email = u.Email
	}
	return out, nil
}

func buildInvoicePDF(d bookingDocData, issuedAt string) ([]byte, string, error) {
	b := d.Booking
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%d-%d", b.ID, b.PackageID)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "No Invoice   : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Tanggal     : "+issuedAt)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ditagihkan kepada:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Nama   : %s", utils.Fallback(d.TouristName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email  : %s", utils.Fallback(d.Email, "-")))
	pdf.Ln(10)

	price, err := domain.CalculatePrice(d.Package.PricePerPerson, b.TravelersCount)
	if err != nil {
		// package price changed or is missing; fall back to the stored total
		price = domain.PriceBreakdown{BasePrice: b.TotalPrice, TotalPrice: b.TotalPrice}
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rincian:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("1) Paket %s - %s (%s), %d orang",
		utils.Fallback(d.Package.Name, "-"), utils.Fallback(d.Package.Destination, "-"), b.TravelDate, b.TravelersCount), "", "", false)
	pdf.Ln(2)

	rows := [][2]string{
		{"Harga dasar", utils.FormatRupiah(price.BasePrice)},
		{"Biaya layanan (5%)", utils.FormatRupiah(price.ServiceFee)},
		{"Pajak (10%)", utils.FormatRupiah(price.Tax)},
	}
	for _, r := range rows {
		pdf.CellFormat(80, 6, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, r[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, utils.FormatRupiah(b.TotalPrice), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	verified := "-"
	if b.PaymentVerifiedAt != nil {
		verified = utils.FormatDateTime(*b.PaymentVerifiedAt)
	}
	pdf.MultiCell(0, 6, "Status pembayaran: LUNAS (diverifikasi "+verified+")", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", b.ID, utils.SafeFilenamePart(d.TouristName))
	return buf.Bytes(), filename, nil
}

func buildVoucherPDF(d bookingDocData) ([]byte, string, error) {
	b := d.Booking
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Voucher", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-VOUCHER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Nama Tamu      : %s", utils.Fallback(d.TouristName, "-")),
		fmt.Sprintf("Paket          : %s", utils.Fallback(d.Package.Name, "-")),
		fmt.Sprintf("Tujuan         : %s", utils.Fallback(d.Package.Destination, "-")),
		fmt.Sprintf("Tanggal        : %s", b.TravelDate),
		fmt.Sprintf("Jumlah Peserta : %d", b.TravelersCount),
		fmt.Sprintf("Kode Booking   : #%d", b.ID),
		fmt.Sprintf("Kode Voucher   : VCR-%d-%d", b.ID, b.PackageID),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Catatan: Harap tunjukkan voucher ini kepada agent saat keberangkatan.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("VOUCHER_%d_%s.pdf", b.ID, utils.SafeFilenamePart(d.TouristName))
	return buf.Bytes(), filename, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbook/internal/services"
)

// POST /api/bookings
func (a API) CreateBooking(c *gin.Context) {
	var req services.CreateBookingInput
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := a.Bookings.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /api/bookings
func (a API) ListBookings(c *gin.Context) {
	out, err := a.Bookings.List(c.Request.Context(), actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/:id
func (a API) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := a.Bookings.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/tourist/:touristId
func (a API) ListTouristBookings(c *gin.Context) {
	id, ok := parseIDParam(c, "touristId")
	if !ok {
		return
	}
	out, err := a.Bookings.ListForTourist(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/package/:packageId
func (a API) ListPackageBookings(c *gin.Context) {
	id, ok := parseIDParam(c, "packageId")
	if !ok {
		return
	}
	out, err := a.Bookings.ListForPackage(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
}

// PUT /api/bookings/:id/status
func (a API) UpdateBookingStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := a.Bookings.UpdateStatus(c.Request.Context(), actor(c), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/:id/invoice
func (a API) GetBookingInvoicePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pdfBytes, filename, err := a.Invoices.GenerateInvoice(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/bookings/:id/voucher
func (a API) GetBookingVoucherPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pdfBytes, filename, err := a.Invoices.GenerateVoucher(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

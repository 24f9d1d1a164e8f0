package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripbook/internal/domain"
)

// POST /api/bookings/:id/payment-proof (multipart field "file")
func (a API) UploadPaymentProof(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxProofSize+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "file wajib diunggah", nil)
		return
	}
	if fh.Size > domain.MaxProofSize {
		respondError(c, http.StatusBadRequest, "validation_error", "ukuran file maksimal 5MB", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file tidak bisa dibaca", err)
		return
	}
	defer f.Close()

	out, err := a.Payments.SubmitProof(c.Request.Context(), actor(c), id, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/bookings/:id/payment-verify
func (a API) VerifyPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := a.Payments.Verify(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// PUT /api/bookings/:id/payment-reject
func (a API) RejectPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req rejectRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := a.Payments.Reject(c.Request.Context(), actor(c), id, req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/payment/pending
func (a API) ListPendingPayments(c *gin.Context) {
	out, err := a.Payments.Pending(c.Request.Context(), actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/bookings/:id/payment-history
func (a API) PaymentHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := a.Payments.History(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tripbook/internal/services"
)

// GET /api/qris
func (a API) ListQRIS(c *gin.Context) {
	out, err := a.QRIS.List(c.Request.Context(), actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/qris (multipart: foto_qr, fee_type, fee_value)
func (a API) UploadQRIS(c *gin.Context) {
	fh, err := c.FormFile("foto_qr")
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "foto_qr wajib diunggah", nil)
		return
	}
	var feeValue float64
	if raw := strings.TrimSpace(c.PostForm("fee_value")); raw != "" {
		feeValue, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "fee_value tidak valid", nil)
			return
		}
	}
	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file tidak bisa dibaca", err)
		return
	}
	defer f.Close()

	q, err := a.QRIS.Upload(c.Request.Context(), actor(c), services.UploadQRISInput{
		FeeType:  c.PostForm("fee_type"),
		FeeValue: feeValue,
		Image:    f,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// DELETE /api/qris/:id
func (a API) DeleteQRIS(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := a.QRIS.Delete(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "QRIS dihapus"})
}

type generateRequest struct {
	Amount    float64 `json:"amount"`
	BookingID int64   `json:"bookingId"`
}

// POST /api/payment/generate
func (a API) GenerateQR(c *gin.Context) {
	var req generateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := a.QRIS.Generate(c.Request.Context(), actor(c), req.Amount, req.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripbook/internal/domain"
	"tripbook/internal/http/middleware"
	"tripbook/internal/services"
)

// API groups the services behind the REST handlers.
type API struct {
	Auth     services.AuthService
	Packages services.PackageService
	Bookings services.BookingService
	Payments services.PaymentService
	QRIS     services.QRISService
	Reviews  services.ReviewService
	Invoices services.InvoiceService
}

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "body kosong", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, name+" tidak valid", err)
		return 0, false
	}
	return id, true
}

// actor returns the authenticated actor; routes using it are mounted behind middleware.Auth.
func actor(c *gin.Context) domain.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

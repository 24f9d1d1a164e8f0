package client

import (
	"errors"
	"fmt"
	"net/http"

	"tripbook/internal/domain"
)

// NetworkError means no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("%s: cannot reach server: %v", e.Op, e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// ServerError is a 4xx/5xx response decoded from the API error payload.
type ServerError struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"error"`
	RequestID string `json:"request_id"`
}

func (e ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, msg)
}

// CodeNoActiveQRIS is the error code of a QR request for an agent without a QRIS.
const CodeNoActiveQRIS = "qris_not_found"

// HasCode reports whether err is a ServerError carrying the given error code.
func HasCode(err error, code string) bool {
	var se ServerError
	return errors.As(err, &se) && se.Code == code
}

// IsStatus reports whether err is a ServerError with the given status.
func IsStatus(err error, status int) bool {
	var se ServerError
	return errors.As(err, &se) && se.Status == status
}

// UserMessage maps an error to the single line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve domain.ValidationError
		ne NetworkError
		se ServerError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ne):
		return "Tidak dapat terhubung ke server. Periksa koneksi Anda."
	case errors.As(err, &se):
		switch {
		case se.Status == http.StatusUnauthorized:
			return "Sesi berakhir, silakan login kembali."
		case se.Status == http.StatusForbidden:
			return "Anda tidak memiliki akses untuk tindakan ini."
		case se.Status == http.StatusNotFound:
			return "Data tidak ditemukan."
		case se.Status == http.StatusConflict:
			return "Data sudah berubah, muat ulang lalu coba lagi."
		case se.Status >= 500:
			return "Terjadi kesalahan pada server. Coba lagi nanti."
		case se.Message != "":
			return se.Message
		default:
			return "Permintaan tidak valid."
		}
	case domain.IsConflict(err):
		return err.Error()
	default:
		return "Terjadi kesalahan. Coba lagi."
	}
}

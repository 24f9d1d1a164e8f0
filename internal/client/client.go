package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tripbook/internal/utils"
)

// Client talks to the tripbook REST API. Every request carries the session's
// bearer token; a 401 logs the session out and calls OnUnauthorized.
type Client struct {
	BaseURL        string
	HTTP           *http.Client
	Session        *Session
	OnUnauthorized func()
}

func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = &Session{}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Session: session,
	}
}

func (c *Client) Bookings() BookingService { return BookingService{c: c} }
func (c *Client) Payments() PaymentService { return PaymentService{c: c} }
func (c *Client) QRIS() QRISService        { return QRISService{c: c} }
func (c *Client) Auth() AuthService        { return AuthService{c: c} }
func (c *Client) Catalog() CatalogService  { return CatalogService{c: c} }

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	resp, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return err
	}
	return decode(resp, method, path, out)
}

// upload sends a single file plus extra form fields as multipart/form-data.
func (c *Client) upload(ctx context.Context, path, field, filename string, file io.Reader, fields map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	return decode(resp, http.MethodPost, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.Session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, NetworkError{Op: method + " " + path, Err: err}
	}
	utils.Log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("api call")

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.Session.Logout(); err != nil {
			utils.LogError("", "client", "logout", err)
		}
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
	}
	return resp, nil
}

func decode(resp *http.Response, method, path string, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		se := ServerError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, &se)
		se.Status = resp.StatusCode
		return se
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

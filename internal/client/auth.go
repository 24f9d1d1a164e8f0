package client

import (
	"context"
	"net/http"
	"time"

	"tripbook/internal/domain/models"
)

type AuthService struct {
	c *Client
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Login stores the returned token in the client's session.
func (s AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	var out loginResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, &out); err != nil {
		return models.User{}, err
	}
	if err := s.c.Session.Set(out.Token, out.User); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	err := s.c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &out)
	return out.User, err
}

func (s AuthService) Logout() error {
	return s.c.Session.Logout()
}

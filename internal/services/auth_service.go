package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
	"tripbook/internal/utils"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	Secret []byte
	TTL    time.Duration
	Clock  utils.Clock
}

func (m TokenManager) Issue(u models.User) (string, time.Time, error) {
	ttl := m.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := m.Clock.Now()
	exp := now.Add(ttl)
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, domain.InternalError{Msg: "gagal membuat token", Err: err}
	}
	return token, exp, nil
}

// Parse verifies the signature and expiry and returns the actor behind the token.
func (m TokenManager) Parse(raw string) (domain.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.Clock.Now),
	)
	if err != nil {
		return domain.Actor{}, domain.UnauthorizedError{Msg: "token tidak valid", Err: err}
	}
	if claims.UserID <= 0 {
		return domain.Actor{}, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	if _, err := domain.ParseRole(string(claims.Role)); err != nil {
		return domain.Actor{}, domain.UnauthorizedError{Msg: "token tidak valid", Err: err}
	}
	return domain.Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

type AuthService struct {
	Users  UserRepo
	Tokens TokenManager
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	role, err := domain.ParseRole(strings.TrimSpace(in.Role))
	if err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "email tidak valid", Err: domain.ErrInvalidArgument}
	}
	if len(in.Password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "password minimal 8 karakter", Err: domain.ErrInvalidArgument}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "gagal meng-hash password", Err: err}
	}
	u := models.User{Name: utils.NormalizeSpace(in.Name), Email: strings.TrimSpace(in.Email), PasswordHash: string(hash), Role: role}
	if err := s.Users.Create(ctx, &u); err != nil {
		return models.User{}, err
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "auth", "register", fmt.Sprintf("user_id=%d role=%s", u.ID, role))
	return u, nil
}

// Login checks the password and issues a token. Unknown email and wrong
// password yield the same UnauthorizedError.
func (s AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return Session{}, domain.UnauthorizedError{Msg: "email atau password salah"}
		}
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Session{}, domain.UnauthorizedError{Msg: "email atau password salah"}
		}
		return Session{}, domain.InternalError{Msg: "gagal memeriksa password", Err: err}
	}
	token, exp, err := s.Tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s AuthService) Me(ctx context.Context, actor domain.Actor) (models.User, error) {
	return s.Users.GetByID(ctx, actor.UserID)
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "tripbook/internal/config"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts the user; a duplicate email yields a ConflictError.
func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(u.Name), strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, string(u.Role), u.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			return domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar", Err: err}
		}
		return domain.InternalError{Msg: "gagal menyimpan user", Err: err}
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.get(ctx, `WHERE email=?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.get(ctx, `WHERE id=?`, id)
}

func (r UserRepository) get(ctx context.Context, where string, arg any) (models.User, error) {
	var (
		u    models.User
		role string
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users `+where+` LIMIT 1`, arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, domain.InternalError{Msg: "gagal query user", Err: err}
	}
	u.Role = domain.Role(role)
	return u, nil
}

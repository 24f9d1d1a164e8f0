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
)

type PackageRepository struct {
	DB *sql.DB
}

func (r PackageRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const packageColumns = `id, agent_id, name, destination, COALESCE(description,''), price_per_person, max_travelers, created_at`

func scanPackage(row interface{ Scan(...any) error }) (models.Package, error) {
	var p models.Package
	err := row.Scan(&p.ID, &p.AgentID, &p.Name, &p.Destination, &p.Description, &p.PricePerPerson, &p.MaxTravelers, &p.CreatedAt)
	return p, err
}

func (r PackageRepository) Create(ctx context.Context, p *models.Package) error {
	p.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO packages (agent_id, name, destination, description, price_per_person, max_travelers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.AgentID, strings.TrimSpace(p.Name), strings.TrimSpace(p.Destination), p.Description, p.PricePerPerson, p.MaxTravelers, p.CreatedAt,
	)
	if err != nil {
		return domain.InternalError{Msg: "gagal menyimpan paket", Err: err}
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return domain.InternalError{Msg: "gagal membaca id paket", Err: err}
	}
	return nil
}

func (r PackageRepository) GetByID(ctx context.Context, id int64) (models.Package, error) {
	p, err := scanPackage(r.db().QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Package{}, domain.NotFoundError{Resource: "package", Err: err}
		}
		return models.Package{}, domain.InternalError{Msg: "gagal membaca paket", Err: err}
	}
	return p, nil
}

// List returns all packages, or only the agent's when agentID > 0.
func (r PackageRepository) List(ctx context.Context, agentID int64) ([]models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages`
	args := []any{}
	if agentID > 0 {
		query += ` WHERE agent_id=?`
		args = append(args, agentID)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil paket", Err: err}
	}
	defer rows.Close()

	out := []models.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, domain.InternalError{Msg: "gagal membaca paket", Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "tripbook/internal/config"
	intdb "tripbook/internal/db"
	"tripbook/internal/domain"
	"tripbook/internal/domain/models"
)

type QRISRepository struct {
	DB *sql.DB
}

func (r QRISRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const qrisColumns = `id, agent_id, foto_qr_url, fee_type, fee_value, is_active, created_at`

func scanQRIS(row intdb.Scanner) (models.QRIS, error) {
	var (
		q       models.QRIS
		feeType string
	)
	if err := row.Scan(&q.ID, &q.AgentID, &q.FotoQrURL, &feeType, &q.FeeValue, &q.IsActive, &q.CreatedAt); err != nil {
		return models.QRIS{}, err
	}
	q.FeeType = domain.FeeType(feeType)
	return q, nil
}

// Activate stores a new QRIS for the agent and deactivates the previous ones.
func (r QRISRepository) Activate(ctx context.Context, q *models.QRIS) error {
	q.CreatedAt = time.Now().UTC().Truncate(time.Second)
	q.IsActive = true
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE qris SET is_active=0 WHERE agent_id=? AND is_active=1`, q.AgentID); err != nil {
			return domain.InternalError{Msg: "gagal menonaktifkan QRIS lama", Err: err}
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO qris (agent_id, foto_qr_url, fee_type, fee_value, is_active, created_at)
			VALUES (?, ?, ?, ?, 1, ?)`,
			q.AgentID, q.FotoQrURL, string(q.FeeType), q.FeeValue, q.CreatedAt,
		)
		if err != nil {
			return domain.InternalError{Msg: "gagal menyimpan QRIS", Err: err}
		}
		q.ID, err = res.LastInsertId()
		return err
	})
}

// GetActive returns the agent's active QRIS or a NotFoundError.
func (r QRISRepository) GetActive(ctx context.Context, agentID int64) (models.QRIS, error) {
	q, err := scanQRIS(r.db().QueryRowContext(ctx,
		`SELECT `+qrisColumns+` FROM qris WHERE agent_id=? AND is_active=1 ORDER BY id DESC LIMIT 1`, agentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QRIS{}, domain.NotFoundError{Resource: "active QRIS", Err: fmt.Errorf("%w: %w", domain.ErrNoActiveQRIS, err)}
		}
		return models.QRIS{}, domain.InternalError{Msg: "gagal membaca QRIS", Err: err}
	}
	return q, nil
}

func (r QRISRepository) ListByAgent(ctx context.Context, agentID int64) ([]models.QRIS, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+qrisColumns+` FROM qris WHERE agent_id=? ORDER BY id DESC`, agentID)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil QRIS", Err: err}
	}
	defer rows.Close()

	out := []models.QRIS{}
	for rows.Next() {
		q, err := scanQRIS(rows)
		if err != nil {
			return nil, domain.InternalError{Msg: "gagal membaca QRIS", Err: err}
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Delete removes one of the agent's QRIS records.
func (r QRISRepository) Delete(ctx context.Context, agentID, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM qris WHERE id=? AND agent_id=?`, id, agentID)
	if err != nil {
		return domain.InternalError{Msg: "gagal menghapus QRIS", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "QRIS"}
	}
	return nil
}

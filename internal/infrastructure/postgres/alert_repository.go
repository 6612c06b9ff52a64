package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Acepta pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, item_id, type, available, created_at, acknowledged_at, acknowledged_by`

func (r *AlertRepo) Create(alert *entity.StockAlert) error {
	query := `
		INSERT INTO stock_alerts (id, item_id, type, available, created_at, acknowledged_at, acknowledged_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ItemID, alert.Type, alert.Available, alert.CreatedAt,
		alert.AcknowledgedAt, alert.AcknowledgedBy,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (r *AlertRepo) GetByID(id string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetOpenByItem devuelve la alerta sin reconocer del ítem, o nil.
func (r *AlertRepo) GetOpenByItem(itemID string) (*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE item_id = $1 AND acknowledged_at IS NULL
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID))
}

func (r *AlertRepo) Update(alert *entity.StockAlert) error {
	query := `
		UPDATE stock_alerts SET type = $2, available = $3, acknowledged_at = $4, acknowledged_by = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.Type, alert.Available, alert.AcknowledgedAt, alert.AcknowledgedBy,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) ListOpen() ([]*entity.StockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE acknowledged_at IS NULL ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := scanAlert(rows, &a); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AlertRepo) scanOne(row pgx.Row) (*entity.StockAlert, error) {
	var a entity.StockAlert
	if err := scanAlert(row, &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &a, nil
}

func scanAlert(row pgx.Row, a *entity.StockAlert) error {
	return row.Scan(
		&a.ID, &a.ItemID, &a.Type, &a.Available, &a.CreatedAt,
		&a.AcknowledgedAt, &a.AcknowledgedBy,
	)
}

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

var _ repository.SerialRepository = (*SerialRepo)(nil)

// SerialRepo implementación de SerialRepository sobre PostgreSQL.
// La serie es PK global: única entre todos los ítems.
type SerialRepo struct {
	q Querier
}

// NewSerialRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

const serialColumns = `serial, item_id, location, status, order_id, cost, created_at, updated_at`

func (r *SerialRepo) Create(unit *entity.SerialUnit) error {
	query := `
		INSERT INTO serial_units (serial, item_id, location, status, order_id, cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		unit.Serial, unit.ItemID, unit.Location, unit.Status, unit.OrderID, unit.Cost,
		unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSerial
		}
		return fmt.Errorf("create serial unit: %w", err)
	}
	return nil
}

func (r *SerialRepo) Get(serial string) (*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE serial = $1`
	var u entity.SerialUnit
	err := r.q.QueryRow(context.Background(), query, serial).Scan(
		&u.Serial, &u.ItemID, &u.Location, &u.Status, &u.OrderID, &u.Cost, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serial unit: %w", err)
	}
	return &u, nil
}

func (r *SerialRepo) Update(unit *entity.SerialUnit) error {
	query := `
		UPDATE serial_units SET location = $2, status = $3, order_id = $4, updated_at = now()
		WHERE serial = $1`
	tag, err := r.q.Exec(context.Background(), query,
		unit.Serial, unit.Location, unit.Status, unit.OrderID,
	)
	if err != nil {
		return fmt.Errorf("update serial unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SerialRepo) ListByItem(itemID string, limit, offset int) ([]*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_units
		WHERE item_id = $1 ORDER BY serial LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list serial units by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.SerialUnit
	for rows.Next() {
		var u entity.SerialUnit
		if err := rows.Scan(&u.Serial, &u.ItemID, &u.Location, &u.Status, &u.OrderID, &u.Cost, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

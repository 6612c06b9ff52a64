package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del log de transacciones sobre PostgreSQL.
// La tabla es append-only; seq es BIGSERIAL y da el orden total del log.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Acepta pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const txColumns = `id, seq, type, item_id, serial, from_location, to_location,
	quantity, unit_cost, total_cost, reference, pick_list_id, order_id, created_by, created_at`

// Append inserta la transacción y asigna la secuencia monotónica generada por la DB.
func (r *TransactionRepo) Append(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, type, item_id, serial, from_location, to_location,
			quantity, unit_cost, total_cost, reference, pick_list_id, order_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		tx.ID, tx.Type, tx.ItemID, tx.Serial, tx.FromLocation, tx.ToLocation,
		tx.Quantity, tx.UnitCost, tx.TotalCost, tx.Reference, tx.PickListID, tx.OrderID,
		tx.CreatedBy, tx.CreatedAt,
	).Scan(&tx.Seq)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`
	var t entity.Transaction
	if err := scanTransaction(r.q.QueryRow(context.Background(), query, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepo) ListByItem(itemID string, limit, offset int) ([]*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
		WHERE item_id = $1 ORDER BY seq DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions by item: %w", err)
	}
	return r.collect(rows)
}

func (r *TransactionRepo) ListByPickList(pickListID string) ([]*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE pick_list_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, pickListID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by pick list: %w", err)
	}
	return r.collect(rows)
}

func (r *TransactionRepo) ListByOrder(orderID string) ([]*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE order_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by order: %w", err)
	}
	return r.collect(rows)
}

// ListAll devuelve el log completo en orden de secuencia (para replay/auditoría).
func (r *TransactionRepo) ListAll() ([]*entity.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return r.collect(rows)
}

func (r *TransactionRepo) collect(rows pgx.Rows) ([]*entity.Transaction, error) {
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func scanTransaction(row pgx.Row, t *entity.Transaction) error {
	return row.Scan(
		&t.ID, &t.Seq, &t.Type, &t.ItemID, &t.Serial, &t.FromLocation, &t.ToLocation,
		&t.Quantity, &t.UnitCost, &t.TotalCost, &t.Reference, &t.PickListID, &t.OrderID,
		&t.CreatedBy, &t.CreatedAt,
	)
}

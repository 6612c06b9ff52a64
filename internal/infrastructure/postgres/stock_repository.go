package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL.
// La fila es la vista materializada del ledger por (ítem, ubicación);
// GetForUpdate la bloquea para serializar escritores concurrentes.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `item_id, location, quantity, reserved, version, updated_at`

// Get devuelve el registro, o uno en cero si la fila no existe todavía.
func (r *StockRepo) Get(itemID, location string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE item_id = $1 AND location = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, location), itemID, location)
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si la clave no existe
// todavía, materializa primero la fila en cero: dos primeras recepciones
// concurrentes de la misma clave deben competir por el mismo bloqueo en vez
// de leer cada una un registro en cero sin bloquear.
func (r *StockRepo) GetForUpdate(itemID, location string) (*entity.StockRecord, error) {
	insert := `
		INSERT INTO stock (item_id, location, quantity, reserved, version, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (item_id, location) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, itemID, location); err != nil {
		return nil, fmt.Errorf("init stock row: %w", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE item_id = $1 AND location = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, location), itemID, location)
}

// Upsert persiste el registro incrementando la versión.
func (r *StockRepo) Upsert(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock (item_id, location, quantity, reserved, version, updated_at)
		VALUES ($1, $2, $3, $4, 1, now())
		ON CONFLICT (item_id, location)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved = EXCLUDED.reserved,
			version = stock.version + 1, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.ItemID, record.Location, record.Quantity, record.Reserved,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) ListByItem(itemID string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE item_id = $1 ORDER BY location`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock by item: %w", err)
	}
	return r.collect(rows)
}

func (r *StockRepo) ListAll() ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stock ORDER BY item_id, location`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return r.collect(rows)
}

func (r *StockRepo) scanOne(row pgx.Row, itemID, location string) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ItemID, &s.Location, &s.Quantity, &s.Reserved, &s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{
				ItemID:   itemID,
				Location: location,
				Quantity: decimal.Zero,
				Reserved: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

func (r *StockRepo) collect(rows pgx.Rows) ([]*entity.StockRecord, error) {
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ItemID, &s.Location, &s.Quantity, &s.Reserved, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

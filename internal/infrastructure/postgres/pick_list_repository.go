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

var _ repository.PickListRepository = (*PickListRepo)(nil)

// PickListRepo implementación de PickListRepository sobre PostgreSQL.
// GetForUpdate bloquea la cabecera: un solo escaneo a la vez por lista.
type PickListRepo struct {
	q Querier
}

// NewPickListRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPickListRepository(q Querier) *PickListRepo {
	return &PickListRepo{q: q}
}

const pickListColumns = `id, order_id, bom_id, order_qty, status, created_by, created_at, updated_at`
const pickItemColumns = `id, pick_list_id, item_id, location, required_qty, reserved_qty,
	picked_qty, quantity_short, optional, status, skipped_by`

func (r *PickListRepo) Create(list *entity.PickList) error {
	query := `
		INSERT INTO pick_lists (id, order_id, bom_id, order_qty, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		list.ID, list.OrderID, list.BOMID, list.OrderQty, list.Status,
		list.CreatedBy, list.CreatedAt, list.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create pick list: %w", err)
	}
	itemQuery := `
		INSERT INTO pick_list_items (id, pick_list_id, item_id, location, required_qty,
			reserved_qty, picked_qty, quantity_short, optional, status, skipped_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, it := range list.Items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, list.ID, it.ItemID, it.Location, it.RequiredQty,
			it.ReservedQty, it.PickedQty, it.QuantityShort, it.Optional, it.Status, it.SkippedBy,
		)
		if err != nil {
			return fmt.Errorf("create pick list item: %w", err)
		}
	}
	return nil
}

func (r *PickListRepo) GetByID(id string) (*entity.PickList, error) {
	query := `SELECT ` + pickListColumns + ` FROM pick_lists WHERE id = $1`
	return r.scanWithItems(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la cabecera de la lista (SELECT FOR UPDATE).
func (r *PickListRepo) GetForUpdate(id string) (*entity.PickList, error) {
	query := `SELECT ` + pickListColumns + ` FROM pick_lists WHERE id = $1 FOR UPDATE`
	return r.scanWithItems(r.q.QueryRow(context.Background(), query, id))
}

func (r *PickListRepo) Update(list *entity.PickList) error {
	query := `UPDATE pick_lists SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, list.ID, list.Status)
	if err != nil {
		return fmt.Errorf("update pick list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PickListRepo) UpdateItem(item *entity.PickListItem) error {
	query := `
		UPDATE pick_list_items SET reserved_qty = $2, picked_qty = $3, quantity_short = $4,
			status = $5, skipped_by = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.ReservedQty, item.PickedQty, item.QuantityShort, item.Status, item.SkippedBy,
	)
	if err != nil {
		return fmt.Errorf("update pick list item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PickListRepo) ListByOrder(orderID string) ([]*entity.PickList, error) {
	query := `SELECT ` + pickListColumns + ` FROM pick_lists WHERE order_id = $1 ORDER BY created_at`
	return r.list(query, orderID)
}

// ListOpen devuelve listas en pending o in_progress (para reconciliación).
func (r *PickListRepo) ListOpen() ([]*entity.PickList, error) {
	query := `SELECT ` + pickListColumns + ` FROM pick_lists
		WHERE status IN ($1, $2) ORDER BY created_at`
	return r.list(query, entity.PickListPending, entity.PickListInProgress)
}

func (r *PickListRepo) list(query string, args ...any) ([]*entity.PickList, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pick lists: %w", err)
	}
	defer rows.Close()
	var lists []*entity.PickList
	for rows.Next() {
		var p entity.PickList
		if err := scanPickList(rows, &p); err != nil {
			return nil, fmt.Errorf("scan pick list: %w", err)
		}
		lists = append(lists, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range lists {
		items, err := r.items(p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return lists, nil
}

func (r *PickListRepo) scanWithItems(row pgx.Row) (*entity.PickList, error) {
	var p entity.PickList
	if err := scanPickList(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick list: %w", err)
	}
	items, err := r.items(p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

func (r *PickListRepo) items(pickListID string) ([]entity.PickListItem, error) {
	query := `SELECT ` + pickItemColumns + ` FROM pick_list_items
		WHERE pick_list_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, pickListID)
	if err != nil {
		return nil, fmt.Errorf("list pick list items: %w", err)
	}
	defer rows.Close()
	var items []entity.PickListItem
	for rows.Next() {
		var it entity.PickListItem
		if err := rows.Scan(
			&it.ID, &it.PickListID, &it.ItemID, &it.Location, &it.RequiredQty,
			&it.ReservedQty, &it.PickedQty, &it.QuantityShort, &it.Optional, &it.Status, &it.SkippedBy,
		); err != nil {
			return nil, fmt.Errorf("scan pick list item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanPickList(row pgx.Row, p *entity.PickList) error {
	return row.Scan(
		&p.ID, &p.OrderID, &p.BOMID, &p.OrderQty, &p.Status,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
}

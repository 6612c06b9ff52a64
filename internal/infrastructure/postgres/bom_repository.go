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

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación de BOMRepository sobre PostgreSQL.
// La cabecera vive en boms y los componentes en bom_components; las lecturas
// devuelven siempre la BOM con sus componentes cargados.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

const bomColumns = `id, product_type, variant, name, version, is_default, active, locked, created_at, updated_at`

func (r *BOMRepo) Create(bom *entity.BillOfMaterials) error {
	query := `
		INSERT INTO boms (id, product_type, variant, name, version, is_default, active, locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		bom.ID, bom.ProductType, bom.Variant, bom.Name, bom.Version,
		bom.IsDefault, bom.Active, bom.Locked, bom.CreatedAt, bom.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create bom: %w", err)
	}
	return r.replaceComponents(bom.ID, bom.Components)
}

func (r *BOMRepo) GetByID(id string) (*entity.BillOfMaterials, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE id = $1`
	return r.scanWithComponents(r.q.QueryRow(context.Background(), query, id))
}

// GetDefault devuelve la BOM default activa para (tipo, variante) exactos, o nil.
func (r *BOMRepo) GetDefault(productType, variant string) (*entity.BillOfMaterials, error) {
	query := `SELECT ` + bomColumns + ` FROM boms
		WHERE product_type = $1 AND variant = $2 AND is_default AND active`
	return r.scanWithComponents(r.q.QueryRow(context.Background(), query, productType, variant))
}

func (r *BOMRepo) Update(bom *entity.BillOfMaterials) error {
	query := `
		UPDATE boms SET product_type = $2, variant = $3, name = $4, version = $5,
			is_default = $6, active = $7, locked = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		bom.ID, bom.ProductType, bom.Variant, bom.Name, bom.Version,
		bom.IsDefault, bom.Active, bom.Locked,
	)
	if err != nil {
		return fmt.Errorf("update bom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.replaceComponents(bom.ID, bom.Components)
}

// Lock congela la BOM (idempotente: volver a congelar no es error).
func (r *BOMRepo) Lock(id string) error {
	query := `UPDATE boms SET locked = true, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("lock bom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BOMRepo) ListByProductType(productType string) ([]*entity.BillOfMaterials, error) {
	query := `SELECT ` + bomColumns + ` FROM boms
		WHERE product_type = $1 ORDER BY variant, version DESC`
	rows, err := r.q.Query(context.Background(), query, productType)
	if err != nil {
		return nil, fmt.Errorf("list boms by product type: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillOfMaterials
	for rows.Next() {
		var b entity.BillOfMaterials
		if err := scanBOM(rows, &b); err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		list = append(list, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range list {
		comps, err := r.components(b.ID)
		if err != nil {
			return nil, err
		}
		b.Components = comps
	}
	return list, nil
}

func (r *BOMRepo) scanWithComponents(row pgx.Row) (*entity.BillOfMaterials, error) {
	var b entity.BillOfMaterials
	if err := scanBOM(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	comps, err := r.components(b.ID)
	if err != nil {
		return nil, err
	}
	b.Components = comps
	return &b, nil
}

func (r *BOMRepo) components(bomID string) ([]entity.BOMComponent, error) {
	query := `SELECT item_id, qty_per_unit, optional FROM bom_components
		WHERE bom_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, bomID)
	if err != nil {
		return nil, fmt.Errorf("list bom components: %w", err)
	}
	defer rows.Close()
	var comps []entity.BOMComponent
	for rows.Next() {
		var c entity.BOMComponent
		if err := rows.Scan(&c.ItemID, &c.QtyPerUnit, &c.Optional); err != nil {
			return nil, fmt.Errorf("scan bom component: %w", err)
		}
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

// replaceComponents reescribe los componentes (la edición de una BOM no
// congelada reemplaza la lista completa).
func (r *BOMRepo) replaceComponents(bomID string, comps []entity.BOMComponent) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM bom_components WHERE bom_id = $1`, bomID); err != nil {
		return fmt.Errorf("clear bom components: %w", err)
	}
	query := `INSERT INTO bom_components (bom_id, item_id, qty_per_unit, optional, position)
		VALUES ($1, $2, $3, $4, $5)`
	for i, c := range comps {
		if _, err := r.q.Exec(ctx, query, bomID, c.ItemID, c.QtyPerUnit, c.Optional, i); err != nil {
			return fmt.Errorf("insert bom component: %w", err)
		}
	}
	return nil
}

func scanBOM(row pgx.Row, b *entity.BillOfMaterials) error {
	return row.Scan(
		&b.ID, &b.ProductType, &b.Variant, &b.Name, &b.Version,
		&b.IsDefault, &b.Active, &b.Locked, &b.CreatedAt, &b.UpdatedAt,
	)
}

package bom

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// EngineUseCase motor de BOMs: recetas por (tipo de producto, variante) y su
// despliegue a requerimientos de componentes para una orden.
type EngineUseCase struct {
	repo     repository.BOMRepository
	itemRepo repository.ItemRepository
}

// NewEngineUseCase construye el caso de uso.
func NewEngineUseCase(repo repository.BOMRepository, itemRepo repository.ItemRepository) *EngineUseCase {
	return &EngineUseCase{repo: repo, itemRepo: itemRepo}
}

// Create crea una BOM. Si IsDefault, desplaza la default anterior del mismo
// (tipo, variante): a lo sumo una default por par.
func (uc *EngineUseCase) Create(in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	if in.ProductType == "" || in.Name == "" || len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	components := make([]entity.BOMComponent, 0, len(in.Components))
	for _, c := range in.Components {
		if !c.QtyPerUnit.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(c.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
		components = append(components, entity.BOMComponent{
			ItemID:     c.ItemID,
			QtyPerUnit: c.QtyPerUnit,
			Optional:   c.Optional,
		})
	}
	if in.IsDefault {
		if prev, _ := uc.repo.GetDefault(in.ProductType, in.Variant); prev != nil {
			prev.IsDefault = false
			prev.UpdatedAt = time.Now()
			if err := uc.repo.Update(prev); err != nil {
				return nil, err
			}
		}
	}
	now := time.Now()
	bom := &entity.BillOfMaterials{
		ID:          uuid.New().String(),
		ProductType: in.ProductType,
		Variant:     in.Variant,
		Name:        in.Name,
		Version:     1,
		IsDefault:   in.IsDefault,
		Active:      true,
		Components:  components,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(bom); err != nil {
		return nil, err
	}
	return toBOMResponse(bom), nil
}

// Resolve devuelve la BOM default activa más específica para
// (tipo, variante): primero la de la variante exacta, luego la genérica del
// tipo. Búsqueda por prioridad explícita para que la resolución sea
// determinista. Falla con ErrNoBOMFound si ninguna está activa.
func (uc *EngineUseCase) Resolve(productType, variant string) (*entity.BillOfMaterials, error) {
	if productType == "" {
		return nil, domain.ErrInvalidInput
	}
	if variant != "" {
		bom, err := uc.repo.GetDefault(productType, variant)
		if err != nil {
			return nil, err
		}
		if bom != nil && bom.Active {
			return bom, nil
		}
	}
	bom, err := uc.repo.GetDefault(productType, "")
	if err != nil {
		return nil, err
	}
	if bom == nil || !bom.Active {
		return nil, domain.ErrNoBOMFound
	}
	return bom, nil
}

// GetByID obtiene una BOM por ID; falla con ErrNoBOMFound si no está activa.
func (uc *EngineUseCase) GetByID(id string) (*entity.BillOfMaterials, error) {
	bom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bom == nil || !bom.Active {
		return nil, domain.ErrNoBOMFound
	}
	return bom, nil
}

// Expand despliega la BOM a requerimientos (ítem, cantidad) para la cantidad
// de la orden. Los componentes opcionales se incluyen marcados: el
// orquestador trata sus faltantes como no bloqueantes.
func (uc *EngineUseCase) Expand(bom *entity.BillOfMaterials, orderQty decimal.Decimal) ([]entity.Requirement, error) {
	if bom == nil || !orderQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	return bom.Expand(orderQty), nil
}

// NewVersion crea una versión nueva de una BOM congelada con los componentes
// dados. Editar en sitio una BOM referenciada por un picking completado está
// prohibido: las ediciones crean versión.
func (uc *EngineUseCase) NewVersion(id string, in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	prev, err := uc.repo.GetByID(id)
	if err != nil || prev == nil {
		return nil, domain.ErrNotFound
	}
	out, err := uc.Create(in)
	if err != nil {
		return nil, err
	}
	// La versión nueva hereda el número incremental y retira la anterior.
	created, err := uc.repo.GetByID(out.ID)
	if err != nil || created == nil {
		return nil, domain.ErrNotFound
	}
	created.Version = prev.Version + 1
	if err := uc.repo.Update(created); err != nil {
		return nil, err
	}
	prev.Active = false
	prev.IsDefault = false
	prev.UpdatedAt = time.Now()
	if err := uc.repo.Update(prev); err != nil {
		return nil, err
	}
	out.Version = created.Version
	return out, nil
}

// Update edita una BOM no congelada. Falla con ErrBOMLocked si fue
// referenciada por un picking completado.
func (uc *EngineUseCase) Update(id string, in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	bom, err := uc.repo.GetByID(id)
	if err != nil || bom == nil {
		return nil, domain.ErrNotFound
	}
	if bom.Locked {
		return nil, domain.ErrBOMLocked
	}
	components := make([]entity.BOMComponent, 0, len(in.Components))
	for _, c := range in.Components {
		if !c.QtyPerUnit.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		components = append(components, entity.BOMComponent{
			ItemID:     c.ItemID,
			QtyPerUnit: c.QtyPerUnit,
			Optional:   c.Optional,
		})
	}
	if in.Name != "" {
		bom.Name = in.Name
	}
	if len(components) > 0 {
		bom.Components = components
	}
	bom.UpdatedAt = time.Now()
	if err := uc.repo.Update(bom); err != nil {
		return nil, err
	}
	return toBOMResponse(bom), nil
}

// ListByProductType lista las BOMs de un tipo de producto.
func (uc *EngineUseCase) ListByProductType(productType string) ([]*dto.BOMResponse, error) {
	boms, err := uc.repo.ListByProductType(productType)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BOMResponse, 0, len(boms))
	for _, b := range boms {
		out = append(out, toBOMResponse(b))
	}
	return out, nil
}

func toBOMResponse(bom *entity.BillOfMaterials) *dto.BOMResponse {
	components := make([]dto.BOMComponentResponse, 0, len(bom.Components))
	for _, c := range bom.Components {
		components = append(components, dto.BOMComponentResponse{
			ItemID:     c.ItemID,
			QtyPerUnit: c.QtyPerUnit,
			Optional:   c.Optional,
		})
	}
	return &dto.BOMResponse{
		ID:          bom.ID,
		ProductType: bom.ProductType,
		Variant:     bom.Variant,
		Name:        bom.Name,
		Version:     bom.Version,
		IsDefault:   bom.IsDefault,
		Active:      bom.Active,
		Locked:      bom.Locked,
		Components:  components,
		CreatedAt:   bom.CreatedAt,
	}
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo de ítems. El costo promedio se
// maneja exclusivamente vía recepciones del ledger; los ítems nunca se
// borran físicamente (desactivación suave).
type ItemUseCase struct {
	repo         repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, locationRepo repository.LocationRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, locationRepo: locationRepo}
}

// Create crea un ítem nuevo. El SKU es único e inmutable; AverageCost inicia en 0.
func (uc *ItemUseCase) Create(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.SKU == "" || in.Name == "" || !entity.ValidCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.ReorderPoint.IsNegative() || in.ReorderQty.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.DefaultLocation != "" {
		loc, _ := uc.locationRepo.GetByCode(in.DefaultLocation)
		if loc == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	item := &entity.Item{
		ID:                uuid.New().String(),
		SKU:               in.SKU,
		Name:              in.Name,
		Category:          in.Category,
		UnitMeasure:       in.UnitMeasure,
		TrackIndividually: in.TrackIndividually,
		DefaultLocation:   in.DefaultLocation,
		AverageCost:       decimal.Zero,
		ReorderPoint:      in.ReorderPoint,
		ReorderQty:        in.ReorderQty,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// GetBySKU obtiene un ítem por SKU (resolución de código de barras).
func (uc *ItemUseCase) GetBySKU(sku string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza atributos editables. No permite tocar SKU,
// TrackIndividually ni AverageCost.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Category != "" && !entity.ValidCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.Category != "" {
		item.Category = in.Category
	}
	if in.UnitMeasure != "" {
		item.UnitMeasure = in.UnitMeasure
	}
	if in.DefaultLocation != "" {
		loc, _ := uc.locationRepo.GetByCode(in.DefaultLocation)
		if loc == nil {
			return nil, domain.ErrNotFound
		}
		item.DefaultLocation = in.DefaultLocation
	}
	if !in.ReorderPoint.IsNegative() {
		item.ReorderPoint = in.ReorderPoint
	}
	if !in.ReorderQty.IsNegative() {
		item.ReorderQty = in.ReorderQty
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Deactivate desactiva un ítem (nunca se borra: el ledger lo referencia).
func (uc *ItemUseCase) Deactivate(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

// List lista ítems con paginación.
func (uc *ItemUseCase) List(page dto.PageRequest) ([]*dto.ItemResponse, error) {
	page.DefaultPage()
	items, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out, nil
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                item.ID,
		SKU:               item.SKU,
		Name:              item.Name,
		Category:          item.Category,
		UnitMeasure:       item.UnitMeasure,
		TrackIndividually: item.TrackIndividually,
		DefaultLocation:   item.DefaultLocation,
		AverageCost:       item.AverageCost,
		ReorderPoint:      item.ReorderPoint,
		ReorderQty:        item.ReorderQty,
		Active:            item.Active,
		CreatedAt:         item.CreatedAt,
	}
}

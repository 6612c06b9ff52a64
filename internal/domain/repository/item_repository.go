package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Create falla con domain.ErrDuplicate si el SKU ya existe.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	UpdateCost(itemID string, cost decimal.Decimal) error
	Deactivate(id string) error
	List(limit, offset int) ([]*entity.Item, error)
}

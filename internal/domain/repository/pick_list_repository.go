package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// PickListRepository define el puerto de persistencia para PickList y sus
// líneas. Get/GetForUpdate devuelven la lista con sus líneas cargadas.
type PickListRepository interface {
	Create(list *entity.PickList) error
	GetByID(id string) (*entity.PickList, error)
	// GetForUpdate bloquea la cabecera de la lista (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.PickList, error)
	Update(list *entity.PickList) error
	UpdateItem(item *entity.PickListItem) error
	ListByOrder(orderID string) ([]*entity.PickList, error)
	// ListOpen devuelve listas en pending o in_progress (para reconciliación).
	ListOpen() ([]*entity.PickList, error)
}

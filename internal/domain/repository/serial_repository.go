package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// SerialRepository define el puerto de persistencia para SerialUnit.
// Create falla con domain.ErrDuplicateSerial si la serie existe para
// cualquier ítem.
type SerialRepository interface {
	Create(unit *entity.SerialUnit) error
	Get(serial string) (*entity.SerialUnit, error)
	Update(unit *entity.SerialUnit) error
	ListByItem(itemID string, limit, offset int) ([]*entity.SerialUnit, error)
}

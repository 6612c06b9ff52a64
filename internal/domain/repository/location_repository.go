package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location.
// No hay Delete: las ubicaciones solo se desactivan.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByCode(code string) (*entity.Location, error)
	Deactivate(code string) error
	List() ([]*entity.Location, error)
}

package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// AlertRepository define el puerto de persistencia para StockAlert.
type AlertRepository interface {
	Create(alert *entity.StockAlert) error
	GetByID(id string) (*entity.StockAlert, error)
	// GetOpenByItem devuelve la alerta sin reconocer del ítem, o nil.
	GetOpenByItem(itemID string) (*entity.StockAlert, error)
	Update(alert *entity.StockAlert) error
	ListOpen() ([]*entity.StockAlert, error)
}

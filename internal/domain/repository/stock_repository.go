package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// (ítem, ubicación). Usado dentro de transacciones para garantizar
// consistencia; Get devuelve un registro en cero si la fila no existe.
type StockRepository interface {
	Get(itemID, location string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(itemID, location string) (*entity.StockRecord, error)
	Upsert(record *entity.StockRecord) error
	ListByItem(itemID string) ([]*entity.StockRecord, error)
	ListAll() ([]*entity.StockRecord, error)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de alerta de stock.
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
)

// StockAlert se crea cuando el disponible de un ítem cruza por debajo de su
// punto de reorden. No se auto-resuelve al subir el stock: solo se cierra
// con un reconocimiento explícito.
type StockAlert struct {
	ID             string
	ItemID         string
	Type           string
	Available      decimal.Decimal // disponible al momento de crearla
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
	AcknowledgedBy string
}

// Open indica si la alerta sigue sin reconocer.
func (a *StockAlert) Open() bool {
	return a.AcknowledgedAt == nil
}

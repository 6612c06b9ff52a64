package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa el stock actual de un ítem en una ubicación.
// Vista materializada derivada del log de transacciones; se muta únicamente
// a través del ledger, nunca por escritura directa.
// Invariantes: Quantity >= 0, Reserved >= 0, Reserved <= Quantity.
type StockRecord struct {
	ItemID    string
	Location  string
	Quantity  decimal.Decimal // en mano
	Reserved  decimal.Decimal // comprometido a listas de picking abiertas
	Version   int64           // versión optimista del registro
	UpdatedAt time.Time
}

// Available devuelve la cantidad disponible (en mano menos reservado).
func (s *StockRecord) Available() decimal.Decimal {
	return s.Quantity.Sub(s.Reserved)
}

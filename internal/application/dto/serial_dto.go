package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSerialRequest body para POST /api/serials.
type RegisterSerialRequest struct {
	Serial   string          `json:"serial"`
	ItemID   string          `json:"item_id"`
	Location string          `json:"location"`
	Cost     decimal.Decimal `json:"cost"`
}

// TransitionSerialRequest body para POST /api/serials/:serial/transition.
// OrderID acompaña la reserva de la unidad para una orden.
type TransitionSerialRequest struct {
	NewStatus string `json:"new_status"`
	OrderID   string `json:"order_id,omitempty"`
}

// SerialResponse representación HTTP de una unidad con serie.
type SerialResponse struct {
	Serial    string          `json:"serial"`
	ItemID    string          `json:"item_id"`
	Location  string          `json:"location"`
	Status    string          `json:"status"`
	OrderID   string          `json:"order_id,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
	UpdatedAt time.Time       `json:"updated_at"`
}

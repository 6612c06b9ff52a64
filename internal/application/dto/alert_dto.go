package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertResponse representación HTTP de una alerta de stock.
type AlertResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	Type           string          `json:"type"`
	Available      decimal.Decimal `json:"available"`
	CreatedAt      time.Time       `json:"created_at"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string          `json:"acknowledged_by,omitempty"`
}

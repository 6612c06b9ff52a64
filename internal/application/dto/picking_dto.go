package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneratePickListRequest body para POST /api/pick-lists.
// BOMID es opcional: vacío resuelve la BOM default por (tipo, variante).
// LocationOverrides permite elegir una ubicación origen distinta a la
// default del ítem.
type GeneratePickListRequest struct {
	OrderID           string            `json:"order_id"`
	ProductType       string            `json:"product_type"`
	Variant           string            `json:"variant,omitempty"`
	Quantity          decimal.Decimal   `json:"quantity"`
	BOMID             string            `json:"bom_id,omitempty"`
	LocationOverrides map[string]string `json:"location_overrides,omitempty"`
}

// ScanRequest body para POST /api/pick-lists/:id/scan.
// Barcode es el SKU del ítem, o el número de serie para ítems con
// seguimiento individual.
type ScanRequest struct {
	Barcode  string          `json:"barcode"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SkipItemRequest body para POST /api/pick-lists/:id/skip (supervisor).
type SkipItemRequest struct {
	ItemID string `json:"item_id"`
}

// PickListItemResponse línea de una lista de picking.
type PickListItemResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	Location      string          `json:"location"`
	RequiredQty   decimal.Decimal `json:"required_qty"`
	ReservedQty   decimal.Decimal `json:"reserved_qty"`
	PickedQty     decimal.Decimal `json:"picked_qty"`
	QuantityShort decimal.Decimal `json:"quantity_short"`
	Optional      bool            `json:"optional"`
	Status        string          `json:"status"`
}

// PickListResponse representación HTTP de una lista de picking.
type PickListResponse struct {
	ID        string                 `json:"id"`
	OrderID   string                 `json:"order_id"`
	BOMID     string                 `json:"bom_id"`
	OrderQty  decimal.Decimal        `json:"order_qty"`
	Status    string                 `json:"status"`
	Items     []PickListItemResponse `json:"items"`
	CreatedAt time.Time              `json:"created_at"`
}

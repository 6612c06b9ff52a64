package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMComponentRequest componente dentro de CreateBOMRequest.
type BOMComponentRequest struct {
	ItemID     string          `json:"item_id"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit"`
	Optional   bool            `json:"optional,omitempty"`
}

// CreateBOMRequest body para POST /api/boms.
type CreateBOMRequest struct {
	ProductType string                `json:"product_type"`
	Variant     string                `json:"variant,omitempty"`
	Name        string                `json:"name"`
	IsDefault   bool                  `json:"is_default"`
	Components  []BOMComponentRequest `json:"components"`
}

// BOMComponentResponse componente de una BOM en respuestas.
type BOMComponentResponse struct {
	ItemID     string          `json:"item_id"`
	QtyPerUnit decimal.Decimal `json:"qty_per_unit"`
	Optional   bool            `json:"optional"`
}

// BOMResponse representación HTTP de una BOM.
type BOMResponse struct {
	ID          string                 `json:"id"`
	ProductType string                 `json:"product_type"`
	Variant     string                 `json:"variant,omitempty"`
	Name        string                 `json:"name"`
	Version     int                    `json:"version"`
	IsDefault   bool                   `json:"is_default"`
	Active      bool                   `json:"active"`
	Locked      bool                   `json:"locked"`
	Components  []BOMComponentResponse `json:"components"`
	CreatedAt   time.Time              `json:"created_at"`
}

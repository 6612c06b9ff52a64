package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	UnitMeasure       string          `json:"unit_measure"`
	TrackIndividually bool            `json:"track_individually"`
	DefaultLocation   string          `json:"default_location"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQty        decimal.Decimal `json:"reorder_qty"`
}

// UpdateItemRequest body para PUT /api/items/:id.
// SKU y costo promedio no son editables (el costo se maneja vía recepciones).
type UpdateItemRequest struct {
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	UnitMeasure     string          `json:"unit_measure"`
	DefaultLocation string          `json:"default_location"`
	ReorderPoint    decimal.Decimal `json:"reorder_point"`
	ReorderQty      decimal.Decimal `json:"reorder_qty"`
}

// ItemResponse representación HTTP de un ítem del catálogo.
type ItemResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	UnitMeasure       string          `json:"unit_measure"`
	TrackIndividually bool            `json:"track_individually"`
	DefaultLocation   string          `json:"default_location"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	ReorderQty        decimal.Decimal `json:"reorder_qty"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreateLocationRequest body para POST /api/locations (setup inicial).
type CreateLocationRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// LocationResponse representación HTTP de una ubicación.
type LocationResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

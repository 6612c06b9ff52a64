package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveRequest body para POST /api/inventory/receive.
// Serial es obligatorio para ítems con seguimiento individual (quantity 1).
type ReceiveRequest struct {
	ItemID     string          `json:"item_id"`
	ToLocation string          `json:"to_location"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference,omitempty"`
	Serial     string          `json:"serial,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	ItemID       string          `json:"item_id"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	Quantity     decimal.Decimal `json:"quantity"`
	Override     bool            `json:"override,omitempty"`
	Serial       string          `json:"serial,omitempty"`
}

// AdjustRequest body para POST /api/inventory/adjust (requiere rol supervisor).
type AdjustRequest struct {
	ItemID      string          `json:"item_id"`
	Location    string          `json:"location"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// ReturnRequest body para POST /api/inventory/return.
type ReturnRequest struct {
	ItemID     string          `json:"item_id"`
	ToLocation string          `json:"to_location"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reference  string          `json:"reference,omitempty"`
}

// ScrapRequest body para POST /api/inventory/scrap.
type ScrapRequest struct {
	ItemID       string          `json:"item_id"`
	FromLocation string          `json:"from_location"`
	Quantity     decimal.Decimal `json:"quantity"`
	Serial       string          `json:"serial,omitempty"`
	Reason       string          `json:"reason,omitempty"`
}

// StockResponse stock actual de un (ítem, ubicación).
type StockResponse struct {
	ItemID    string          `json:"item_id"`
	Location  string          `json:"location"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reserved  decimal.Decimal `json:"reserved"`
	Available decimal.Decimal `json:"available"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransactionResponse representación HTTP de una transacción del log.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	Type         string          `json:"type"`
	ItemID       string          `json:"item_id"`
	Serial       string          `json:"serial,omitempty"`
	FromLocation string          `json:"from_location,omitempty"`
	ToLocation   string          `json:"to_location,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Reference    string          `json:"reference,omitempty"`
	PickListID   string          `json:"pick_list_id,omitempty"`
	OrderID      string          `json:"order_id,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

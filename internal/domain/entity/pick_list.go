package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una lista de picking.
// pending → in_progress → completed; pending|in_progress → cancelled.
// completed y cancelled son terminales.
const (
	PickListPending    = "pending"
	PickListInProgress = "in_progress"
	PickListCompleted  = "completed"
	PickListCancelled  = "cancelled"
)

// Estados de una línea de picking.
const (
	PickItemPending = "pending"
	PickItemPicked  = "picked"
	PickItemShort   = "short"   // faltante detectado al generar, visible antes de pickear
	PickItemSkipped = "skipped" // omitido explícitamente por un supervisor
)

// PickList pertenece a una orden y a un snapshot de BOM.
// Ningún camino de salida de pending/in_progress deja reservas colgadas:
// o se consumen con picks o se liberan al cancelar/omitir.
type PickList struct {
	ID        string
	OrderID   string
	BOMID     string
	OrderQty  decimal.Decimal
	Status    string
	Items     []PickListItem
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PickListItem es una línea a recoger para la orden.
// ReservedQty es lo que el ledger logró apartar al generar;
// QuantityShort = RequiredQty - ReservedQty cuando hubo faltante.
type PickListItem struct {
	ID            string
	PickListID    string
	ItemID        string
	Location      string // ubicación origen elegida al generar
	RequiredQty   decimal.Decimal
	ReservedQty   decimal.Decimal
	PickedQty     decimal.Decimal
	QuantityShort decimal.Decimal
	Optional      bool
	Status        string
	SkippedBy     string // actor que omitió la línea (acción auditada)
}

// OutstandingReservation devuelve la reserva aún no consumida de la línea.
func (it *PickListItem) OutstandingReservation() decimal.Decimal {
	out := it.ReservedQty.Sub(it.PickedQty)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// Open indica si la línea sigue abierta para escaneos.
func (it *PickListItem) Open() bool {
	return it.Status == PickItemPending || it.Status == PickItemShort
}

// Terminal indica si la lista está en un estado final.
func (p *PickList) Terminal() bool {
	return p.Status == PickListCompleted || p.Status == PickListCancelled
}

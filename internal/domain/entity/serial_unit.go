package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una unidad con número de serie.
const (
	SerialInStock  = "in_stock"
	SerialReserved = "reserved"
	SerialInUse    = "in_use"
	SerialShipped  = "shipped"
	SerialScrapped = "scrapped"
)

// SerialUnit representa una unidad no fungible identificada por su serie.
// Capa sobre el stock: los SKUs con TrackIndividually mantienen una unidad
// por cada pieza en mano.
type SerialUnit struct {
	Serial    string // identidad única entre todos los ítems
	ItemID    string
	Location  string
	Status    string
	OrderID   string // orden vinculada mientras está reservada o en uso
	Cost      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transiciones permitidas. El flujo es unidireccional
// (in_stock → reserved → in_use → shipped) con dos excepciones:
// reserved → in_stock (liberación) y el salto a scrapped desde
// cualquier estado no terminal.
var serialTransitions = map[string]map[string]bool{
	SerialInStock:  {SerialReserved: true, SerialInUse: true, SerialShipped: true, SerialScrapped: true},
	SerialReserved: {SerialInStock: true, SerialInUse: true, SerialShipped: true, SerialScrapped: true},
	SerialInUse:    {SerialShipped: true, SerialScrapped: true},
	SerialShipped:  {},
	SerialScrapped: {},
}

// CanTransition indica si el paso de estado está permitido por la tabla.
func (u *SerialUnit) CanTransition(newStatus string) bool {
	allowed, ok := serialTransitions[u.Status]
	if !ok {
		return false
	}
	return allowed[newStatus]
}

// ValidSerialStatus indica si el estado es uno de los conocidos.
func ValidSerialStatus(s string) bool {
	_, ok := serialTransitions[s]
	return ok
}

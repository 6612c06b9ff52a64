package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de ítem del catálogo.
const (
	CategoryComponent    = "component"     // componente de ensamble
	CategoryConsumable   = "consumable"    // consumible de piso
	CategoryFinishedGood = "finished_good" // producto terminado
)

// Item representa un SKU del catálogo de planta.
// AverageCost es costo promedio ponderado; solo cambia al recibir mercancía.
// Nunca se borra físicamente: Active=false preserva la integridad del ledger.
type Item struct {
	ID                string
	SKU               string // código único, inmutable tras la creación
	Name              string
	Category          string
	UnitMeasure       string
	TrackIndividually bool   // true = unidades con número de serie
	DefaultLocation   string // código de ubicación origen por defecto
	AverageCost       decimal.Decimal
	ReorderPoint      decimal.Decimal
	ReorderQty        decimal.Decimal
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidCategory indica si la categoría es una de las conocidas.
func ValidCategory(c string) bool {
	switch c {
	case CategoryComponent, CategoryConsumable, CategoryFinishedGood:
		return true
	}
	return false
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillOfMaterials liga un tipo de producto (+ variante opcional) a sus
// componentes requeridos. A lo sumo una BOM puede ser default por
// (tipo, variante). Una BOM referenciada por un picking completado queda
// congelada (Locked): las ediciones crean una versión nueva o se rechazan.
type BillOfMaterials struct {
	ID          string
	ProductType string
	Variant     string // vacío = genérica para el tipo
	Name        string
	Version     int
	IsDefault   bool
	Active      bool
	Locked      bool
	Components  []BOMComponent
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BOMComponent es un requerimiento (ítem, cantidad por unidad de producto).
// Optional marca componentes cuyo faltante no bloquea el picking.
type BOMComponent struct {
	ItemID     string
	QtyPerUnit decimal.Decimal
	Optional   bool
}

// Requirement es una línea del despliegue de una BOM para una cantidad de orden.
type Requirement struct {
	ItemID      string
	RequiredQty decimal.Decimal
	Optional    bool
}

// Expand multiplica cada componente por la cantidad de la orden.
func (b *BillOfMaterials) Expand(orderQty decimal.Decimal) []Requirement {
	reqs := make([]Requirement, 0, len(b.Components))
	for _, c := range b.Components {
		reqs = append(reqs, Requirement{
			ItemID:      c.ItemID,
			RequiredQty: c.QtyPerUnit.Mul(orderQty),
			Optional:    c.Optional,
		})
	}
	return reqs
}

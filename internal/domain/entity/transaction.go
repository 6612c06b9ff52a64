package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del ledger.
const (
	TxTypeReceive  = "receive"  // entrada de mercancía (sin origen)
	TxTypeTransfer = "transfer" // traslado entre ubicaciones
	TxTypePick     = "pick"     // consumo contra una lista de picking (sin destino)
	TxTypeAdjust   = "adjust"   // ajuste de gerencia, registrado como delta firmado
	TxTypeReturn   = "return"   // devolución a una ubicación
	TxTypeScrap    = "scrap"    // baja por daño/merma (sin destino)
)

// Transaction es un registro inmutable del log de movimientos, ordenado por
// Seq (secuencia monotónica, no reloj de pared: evita desorden por clock skew
// entre estaciones). El log nunca se edita ni se borra, solo se agrega;
// reproducir las transacciones de un (ítem, ubicación) desde cero debe
// devolver exactamente el StockRecord actual.
type Transaction struct {
	ID           string
	Seq          int64
	Type         string
	ItemID       string
	Serial       string // solo ítems con seguimiento individual
	FromLocation string // vacío en receive/return/adjust
	ToLocation   string // vacío en pick/scrap
	Quantity     decimal.Decimal // en adjust es el delta firmado
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Reference    string // orden de compra, nota de ajuste, etc.
	PickListID   string
	OrderID      string
	CreatedBy    string
	CreatedAt    time.Time
}

// ValidTxType indica si el tipo de transacción es uno de los conocidos.
func ValidTxType(t string) bool {
	switch t {
	case TxTypeReceive, TxTypeTransfer, TxTypePick, TxTypeAdjust, TxTypeReturn, TxTypeScrap:
		return true
	}
	return false
}

package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Planta-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests CostCalculator (costo promedio ponderado)
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Caso 1: Promedio ponderado clásico. 100 unidades a $10 + 50 a $16 → $12.
func TestCostCalculator_PromedioPonderado(t *testing.T) {
	got := inventory.CostCalculator(dec("100"), dec("10"), dec("50"), dec("16"))
	assert.True(t, got.Equal(dec("12")),
		"(100*10 + 50*16) / 150 debe ser 12, fue %s", got)
}

// Caso 2: Cantidades fraccionarias. 3 a $1 + 1 a $2 → $1.25.
func TestCostCalculator_Fraccionario(t *testing.T) {
	got := inventory.CostCalculator(dec("3"), dec("1"), dec("1"), dec("2"))
	assert.True(t, got.Equal(dec("1.25")), "el promedio debe ser 1.25, fue %s", got)
}

// Caso 3: Sin stock previo el promedio es el costo de la recepción.
func TestCostCalculator_StockCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, dec("99"), dec("10"), dec("7.50"))
	assert.True(t, got.Equal(dec("7.50")),
		"con stock cero el costo debe ser el recibido, fue %s", got)
}

// Caso 4: Stock negativo (ledger corregido por ajuste) también resetea al costo recibido.
func TestCostCalculator_StockNegativo(t *testing.T) {
	got := inventory.CostCalculator(dec("-5"), dec("10"), dec("10"), dec("4"))
	assert.True(t, got.Equal(dec("4")),
		"con stock negativo el costo debe ser el recibido, fue %s", got)
}

// Caso 5: Recibir al mismo costo no mueve el promedio.
func TestCostCalculator_MismoCosto(t *testing.T) {
	got := inventory.CostCalculator(dec("40"), dec("2.50"), dec("60"), dec("2.50"))
	assert.True(t, got.Equal(dec("2.50")), "el promedio no debe cambiar, fue %s", got)
}

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests RebuildFromLog (reconstrucción de stock desde el log)
// ──────────────────────────────────────────────────────────────────────────────

// seedHistory ejecuta una secuencia de operaciones reales contra el ledger y
// devuelve las cantidades esperadas: A=65, B=25.
func seedHistory(t *testing.T, f *fixture) {
	t.Helper()
	f.seedLocation(t, "almacen-a")
	f.seedLocation(t, "almacen-b")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen-a", Quantity: dec("100"), UnitCost: dec("1"),
	})
	require.NoError(t, err)
	_, err = f.uc.Transfer(ctx, ledger.TransferInput{
		ItemID: "tornillo", FromLocation: "almacen-a", ToLocation: "almacen-b", Quantity: dec("30"),
	})
	require.NoError(t, err)
	_, err = f.uc.Adjust(ctx, ledger.AdjustInput{
		ItemID: "tornillo", Location: "almacen-b", NewQuantity: dec("25"), Reason: "conteo físico",
	})
	require.NoError(t, err)
	_, err = f.uc.Scrap(ctx, ledger.ScrapInput{
		ItemID: "tornillo", FromLocation: "almacen-a", Quantity: dec("10"), Reason: "daño",
	})
	require.NoError(t, err)
	_, err = f.uc.Return(ctx, ledger.ReturnInput{
		ItemID: "tornillo", ToLocation: "almacen-a", Quantity: dec("5"), Reference: "orden-9",
	})
	require.NoError(t, err)
}

// Caso 1: Reproducir el log sobre un caché corrupto restaura las cantidades reales.
func TestRebuildFromLog_RestauraCantidades(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	ctx := context.Background()

	// Corromper el caché directamente, por debajo del caso de uso.
	rec := f.stock(t, "tornillo", "almacen-a")
	rec.Quantity = dec("999")
	require.NoError(t, f.stockRepo.Upsert(rec))

	updated, err := f.uc.RebuildFromLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	assert.True(t, f.stock(t, "tornillo", "almacen-a").Quantity.Equal(dec("65")),
		"100 - 30 - 10 + 5 debe dar 65")
	assert.True(t, f.stock(t, "tornillo", "almacen-b").Quantity.Equal(dec("25")),
		"30 ajustado a 25 debe dar 25")
}

// Caso 2: Las reservas no viven en el log: se recomputan desde las listas de
// picking abiertas (reservado menos pickeado por línea).
func TestRebuildFromLog_RecomputaReservas(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, f.pickRepo.Create(&entity.PickList{
		ID:       "pl-1",
		OrderID:  "orden-7",
		BOMID:    "bom-1",
		OrderQty: dec("1"),
		Status:   entity.PickListInProgress,
		Items: []entity.PickListItem{
			{
				ID: "pl-1-1", PickListID: "pl-1", ItemID: "tornillo", Location: "almacen-a",
				RequiredQty: dec("7"), ReservedQty: dec("7"), PickedQty: dec("3"),
				Status: entity.PickItemPending,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}))

	// Reserva corrupta a propósito.
	rec := f.stock(t, "tornillo", "almacen-a")
	rec.Reserved = dec("50")
	require.NoError(t, f.stockRepo.Upsert(rec))

	_, err := f.uc.RebuildFromLog(ctx)
	require.NoError(t, err)

	rec = f.stock(t, "tornillo", "almacen-a")
	assert.True(t, rec.Reserved.Equal(dec("4")),
		"la reserva pendiente debe ser 7 reservadas - 3 pickeadas")
	assert.True(t, f.stock(t, "tornillo", "almacen-b").Reserved.IsZero())
}

// Caso 3: Un registro huérfano (sin transacciones que lo respalden) queda en cero.
func TestRebuildFromLog_HuerfanoEnCero(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	ctx := context.Background()

	f.seedLocation(t, "fantasma")
	require.NoError(t, f.stockRepo.Upsert(&entity.StockRecord{
		ItemID: "tornillo", Location: "fantasma", Quantity: dec("40"), Reserved: decimal.Zero,
	}))

	updated, err := f.uc.RebuildFromLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assert.True(t, f.stock(t, "tornillo", "fantasma").Quantity.IsZero(),
		"sin respaldo en el log la cantidad debe quedar en cero")
}

// Caso 4: Sobre un ledger sano la reconstrucción es idempotente.
func TestRebuildFromLog_Idempotente(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	ctx := context.Background()

	before := f.stock(t, "tornillo", "almacen-a")
	_, err := f.uc.RebuildFromLog(ctx)
	require.NoError(t, err)
	after := f.stock(t, "tornillo", "almacen-a")
	assert.True(t, before.Quantity.Equal(after.Quantity))
	assert.True(t, before.Reserved.Equal(after.Reserved))
}

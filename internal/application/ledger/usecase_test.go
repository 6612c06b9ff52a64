package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/infrastructure/memory"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store      *memory.Store
	uc         *ledger.LedgerUseCase
	itemRepo   *memory.ItemRepo
	stockRepo  *memory.StockRepo
	txRepo     *memory.TransactionRepo
	serialRepo *memory.SerialRepo
	pickRepo   *memory.PickListRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	stockRepo := memory.NewStockRepository(store)
	txRepo := memory.NewTransactionRepository(store)
	uc := ledger.NewLedgerUseCase(
		runner, runner,
		itemRepo, locationRepo, stockRepo, txRepo,
		nil, nil, logger.Nop(),
	)
	return &fixture{
		store:      store,
		uc:         uc,
		itemRepo:   itemRepo,
		stockRepo:  stockRepo,
		txRepo:     txRepo,
		serialRepo: memory.NewSerialRepository(store),
		pickRepo:   memory.NewPickListRepository(store),
	}
}

func (f *fixture) seedLocation(t *testing.T, code string) {
	t.Helper()
	loc := &entity.Location{Code: code, Name: code, Type: entity.LocationStorage, Active: true, CreatedAt: time.Now()}
	require.NoError(t, memory.NewLocationRepository(f.store).Create(loc))
}

func (f *fixture) seedItem(t *testing.T, id, sku string, tracked bool) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID:                id,
		SKU:               sku,
		Name:              sku,
		Category:          entity.CategoryComponent,
		UnitMeasure:       "unidad",
		TrackIndividually: tracked,
		DefaultLocation:   "almacen",
		AverageCost:       decimal.Zero,
		Active:            true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	require.NoError(t, f.itemRepo.Create(item))
	return item
}

func (f *fixture) stock(t *testing.T, itemID, location string) *entity.StockRecord {
	t.Helper()
	rec, err := f.stockRepo.Get(itemID, location)
	require.NoError(t, err)
	return rec
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: Una recepción suma stock, agrega al log y recalcula el costo promedio.
func TestReceive_ActualizaStockYCostoPromedio(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen",
		Quantity: dec("100"), UnitCost: dec("10"), Actor: "recepcion-1",
	})
	require.NoError(t, err)

	tx, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen",
		Quantity: dec("50"), UnitCost: dec("16"), Actor: "recepcion-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TxTypeReceive, tx.Type)
	assert.Equal(t, int64(2), tx.Seq, "la secuencia debe ser monotónica")
	assert.True(t, tx.TotalCost.Equal(dec("800")))

	rec := f.stock(t, "tornillo", "almacen")
	assert.True(t, rec.Quantity.Equal(dec("150")))

	item, err := f.itemRepo.GetByID("tornillo")
	require.NoError(t, err)
	assert.True(t, item.AverageCost.Equal(dec("12")),
		"(100*10 + 50*16)/150 debe ser 12, fue %s", item.AverageCost)
}

// Caso 2: Cantidad no positiva o costo negativo se rechazan.
func TestReceive_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: decimal.Zero, UnitCost: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 3: Un ítem con seguimiento individual exige serie y cantidad 1,
// y la recepción crea la unidad en in_stock.
func TestReceive_ItemSerializado(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "motor", "MOT-5HP", true)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "motor", ToLocation: "almacen", Quantity: dec("2"), UnitCost: dec("500"), Serial: "SN-001",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad debe ser 1 con serie")

	_, err = f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "motor", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("500"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la serie es obligatoria")

	_, err = f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "motor", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("500"), Serial: "SN-001",
	})
	require.NoError(t, err)

	unit, err := f.serialRepo.Get("SN-001")
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, entity.SerialInStock, unit.Status)
	assert.Equal(t, "almacen", unit.Location)
	assert.True(t, unit.Cost.Equal(dec("500")))

	// Serie duplicada: rechazada, sin duplicar stock.
	_, err = f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "motor", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("500"), Serial: "SN-001",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)
	rec := f.stock(t, "motor", "almacen")
	assert.True(t, rec.Quantity.Equal(dec("1")), "el rollback debe deshacer el stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El traslado resta en origen y suma en destino; con stock
// insuficiente no cambia nada (atomicidad).
func TestTransfer_MueveYRespetaDisponible(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedLocation(t, "produccion")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("10"), UnitCost: dec("1"),
	})
	require.NoError(t, err)

	_, err = f.uc.Transfer(ctx, ledger.TransferInput{
		ItemID: "tornillo", FromLocation: "almacen", ToLocation: "produccion", Quantity: dec("4"),
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, "tornillo", "almacen").Quantity.Equal(dec("6")))
	assert.True(t, f.stock(t, "tornillo", "produccion").Quantity.Equal(dec("4")))

	_, err = f.uc.Transfer(ctx, ledger.TransferInput{
		ItemID: "tornillo", FromLocation: "almacen", ToLocation: "produccion", Quantity: dec("7"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, "tornillo", "almacen").Quantity.Equal(dec("6")),
		"un traslado fallido no debe mutar el origen")

	log, err := f.txRepo.ListAll()
	require.NoError(t, err)
	assert.Len(t, log, 2, "el traslado fallido no debe quedar en el log")
}

// Caso 2: El stock reservado no se traslada, salvo override en ítems por lote.
func TestTransfer_ReservaYOverride(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedLocation(t, "produccion")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("10"), UnitCost: dec("1"),
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Reserve(ctx, "tornillo", "almacen", dec("8")))

	// Disponible 2: mover 5 sin override falla.
	_, err = f.uc.Transfer(ctx, ledger.TransferInput{
		ItemID: "tornillo", FromLocation: "almacen", ToLocation: "produccion", Quantity: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Con override el tope es la cantidad en mano.
	_, err = f.uc.Transfer(ctx, ledger.TransferInput{
		ItemID: "tornillo", FromLocation: "almacen", ToLocation: "produccion",
		Quantity: dec("5"), Override: true,
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, "tornillo", "almacen").Quantity.Equal(dec("5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El ajuste fija la cantidad y registra el delta firmado; no toca la reserva.
func TestAdjust_RegistraDeltaFirmado(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("100"), UnitCost: dec("1"),
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Reserve(ctx, "tornillo", "almacen", dec("10")))

	tx, err := f.uc.Adjust(ctx, ledger.AdjustInput{
		ItemID: "tornillo", Location: "almacen", NewQuantity: dec("90"),
		Reason: "conteo físico", Actor: "supervisor-1",
	})
	require.NoError(t, err)
	assert.True(t, tx.Quantity.Equal(dec("-10")), "el delta debe ser firmado")
	rec := f.stock(t, "tornillo", "almacen")
	assert.True(t, rec.Quantity.Equal(dec("90")))
	assert.True(t, rec.Reserved.Equal(dec("10")), "el ajuste no toca la reserva")
}

// Caso 2: Ajustar por debajo de lo reservado, sin motivo o sin cambio se rechaza.
func TestAdjust_Rechazos(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("20"), UnitCost: dec("1"),
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Reserve(ctx, "tornillo", "almacen", dec("15")))

	_, err = f.uc.Adjust(ctx, ledger.AdjustInput{
		ItemID: "tornillo", Location: "almacen", NewQuantity: dec("10"), Reason: "conteo",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "Quantity < Reserved rompería el invariante")

	_, err = f.uc.Adjust(ctx, ledger.AdjustInput{
		ItemID: "tornillo", Location: "almacen", NewQuantity: dec("25"), Reason: "",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo es obligatorio")

	_, err = f.uc.Adjust(ctx, ledger.AdjustInput{
		ItemID: "tornillo", Location: "almacen", NewQuantity: dec("20"), Reason: "sin cambio",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un delta cero no es un ajuste")
}

// ──────────────────────────────────────────────────────────────────────────────
// Scrap y Return
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: La baja respeta el disponible (no puede comerse la reserva).
func TestScrap_TopeDisponible(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("10"), UnitCost: dec("2"),
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Reserve(ctx, "tornillo", "almacen", dec("6")))

	_, err = f.uc.Scrap(ctx, ledger.ScrapInput{
		ItemID: "tornillo", FromLocation: "almacen", Quantity: dec("5"), Reason: "daño",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	tx, err := f.uc.Scrap(ctx, ledger.ScrapInput{
		ItemID: "tornillo", FromLocation: "almacen", Quantity: dec("4"), Reason: "daño",
	})
	require.NoError(t, err)
	assert.True(t, tx.TotalCost.Equal(dec("8")), "la baja viaja al costo promedio")
	assert.True(t, f.stock(t, "tornillo", "almacen").Quantity.Equal(dec("6")))
}

// Caso 2: La devolución suma sin tocar reserva ni costo promedio.
func TestReturn_SumaSinTocarCosto(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "produccion")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "produccion", Quantity: dec("10"), UnitCost: dec("3"),
	})
	require.NoError(t, err)

	_, err = f.uc.Return(ctx, ledger.ReturnInput{
		ItemID: "tornillo", ToLocation: "produccion", Quantity: dec("2"), Reference: "orden-55",
	})
	require.NoError(t, err)
	assert.True(t, f.stock(t, "tornillo", "produccion").Quantity.Equal(dec("12")))

	item, err := f.itemRepo.GetByID("tornillo")
	require.NoError(t, err)
	assert.True(t, item.AverageCost.Equal(dec("3")),
		"solo la recepción cambia el costo promedio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve / Release
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: La reserva directa es todo-o-nada.
func TestReserve_TodoONada(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("5"), UnitCost: dec("1"),
	})
	require.NoError(t, err)

	err = f.uc.Reserve(ctx, "tornillo", "almacen", dec("8"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, "tornillo", "almacen").Reserved.IsZero(),
		"una reserva fallida no debe apartar nada")

	require.NoError(t, f.uc.Reserve(ctx, "tornillo", "almacen", dec("5")))
	rec := f.stock(t, "tornillo", "almacen")
	assert.True(t, rec.Reserved.Equal(dec("5")))
	assert.True(t, rec.Available().IsZero())
}

// Caso 2: Liberar más de lo reservado escala como inconsistencia del ledger.
func TestRelease_ExcesoEscala(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("10"), UnitCost: dec("1"),
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Reserve(ctx, "tornillo", "almacen", dec("3")))

	err = f.uc.Release(ctx, "tornillo", "almacen", dec("4"))
	assert.ErrorIs(t, err, domain.ErrInsufficientReservation)

	require.NoError(t, f.uc.Release(ctx, "tornillo", "almacen", dec("3")))
	assert.True(t, f.stock(t, "tornillo", "almacen").Reserved.IsZero())
}

// Caso 3: Reservas concurrentes nunca apartan juntas más que el disponible.
func TestReserve_Concurrencia(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("10"), UnitCost: dec("1"),
	})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.uc.Reserve(ctx, "tornillo", "almacen", dec("1")); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, okCount, "solo deben triunfar tantas reservas como disponible")
	rec := f.stock(t, "tornillo", "almacen")
	assert.True(t, rec.Reserved.Equal(dec("10")))
	assert.True(t, rec.Reserved.LessThanOrEqual(rec.Quantity),
		"invariante Reserved <= Quantity")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de catálogo
// ──────────────────────────────────────────────────────────────────────────────

// Operar sobre ítems o ubicaciones inexistentes o inactivos falla temprano.
func TestLedger_ItemYUbicacionValidos(t *testing.T) {
	f := newFixture(t)
	f.seedLocation(t, "almacen")
	item := f.seedItem(t, "tornillo", "TOR-M8", false)
	ctx := context.Background()

	_, err := f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "fantasma", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "nave-x", Quantity: dec("1"), UnitCost: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item.Active = false
	require.NoError(t, f.itemRepo.Update(item))
	_, err = f.uc.Receive(ctx, ledger.ReceiveInput{
		ItemID: "tornillo", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "un ítem desactivado no acepta operaciones")
}

package picking_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/bom"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/application/picking"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/infrastructure/memory"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests orquestador de picking
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	uc         *picking.Orchestrator
	ledgerUC   *ledger.LedgerUseCase
	bomUC      *bom.EngineUseCase
	itemRepo   *memory.ItemRepo
	stockRepo  *memory.StockRepo
	txRepo     *memory.TransactionRepo
	serialRepo *memory.SerialRepo
	pickRepo   *memory.PickListRepo
	bomRepo    *memory.BOMRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	stockRepo := memory.NewStockRepository(store)
	txRepo := memory.NewTransactionRepository(store)
	bomRepo := memory.NewBOMRepository(store)
	pickRepo := memory.NewPickListRepository(store)

	ledgerUC := ledger.NewLedgerUseCase(
		runner, runner,
		itemRepo, locationRepo, stockRepo, txRepo,
		nil, nil, logger.Nop(),
	)
	bomUC := bom.NewEngineUseCase(bomRepo, itemRepo)
	uc := picking.NewOrchestrator(runner, ledgerUC, bomUC, pickRepo, logger.Nop())

	require.NoError(t, locationRepo.Create(&entity.Location{
		Code: "almacen", Name: "Almacén", Type: entity.LocationStorage, Active: true, CreatedAt: time.Now(),
	}))
	return &fixture{
		uc: uc, ledgerUC: ledgerUC, bomUC: bomUC,
		itemRepo: itemRepo, stockRepo: stockRepo, txRepo: txRepo,
		serialRepo: memory.NewSerialRepository(store),
		pickRepo:   pickRepo, bomRepo: bomRepo,
	}
}

// seedItem crea un ítem con stock inicial en almacén.
func (f *fixture) seedItem(t *testing.T, id, sku, qty string, tracked bool) {
	t.Helper()
	require.NoError(t, f.itemRepo.Create(&entity.Item{
		ID: id, SKU: sku, Name: id,
		Category: entity.CategoryComponent, UnitMeasure: "unidad",
		TrackIndividually: tracked, DefaultLocation: "almacen",
		Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	if qty != "" {
		_, err := f.ledgerUC.Receive(context.Background(), ledger.ReceiveInput{
			ItemID: id, ToLocation: "almacen", Quantity: dec(qty), UnitCost: dec("1"),
		})
		require.NoError(t, err)
	}
}

// seedBOM crea una BOM default simple: qtyPerUnit tornillos por unidad.
func (f *fixture) seedBOM(t *testing.T, itemID, qtyPerUnit string) string {
	t.Helper()
	out, err := f.bomUC.Create(dto.CreateBOMRequest{
		ProductType: "silla", Name: "receta silla", IsDefault: true,
		Components: []dto.BOMComponentRequest{{ItemID: itemID, QtyPerUnit: dec(qtyPerUnit)}},
	})
	require.NoError(t, err)
	return out.ID
}

func (f *fixture) stock(t *testing.T, itemID string) *entity.StockRecord {
	t.Helper()
	rec, err := f.stockRepo.Get(itemID, "almacen")
	require.NoError(t, err)
	return rec
}

// Caso 1: Generar reserva por línea; con stock corto la línea queda short
// de inmediato, visible antes de pickear nada.
func TestGenerate_ReservaYShort(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "60", false)
	f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("2"),
	}, "operario-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListPending, list.Status)
	require.Len(t, list.Items, 1)

	line := list.Items[0]
	assert.True(t, line.RequiredQty.Equal(dec("80")), "40 por unidad x 2")
	assert.True(t, line.ReservedQty.Equal(dec("60")), "se reserva lo que el disponible permite")
	assert.True(t, line.QuantityShort.Equal(dec("20")))
	assert.Equal(t, entity.PickItemShort, line.Status)

	rec := f.stock(t, "tornillo")
	assert.True(t, rec.Reserved.Equal(dec("60")))
	assert.True(t, rec.Available().IsZero())
}

// Caso 2: Dos listas compiten por el mismo ítem; la segunda observa el short.
func TestGenerate_CompetenciaPorStock(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "50", false)
	f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	first, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)
	assert.True(t, first.Items[0].ReservedQty.Equal(dec("40")))

	second, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-2", ProductType: "silla", Quantity: dec("1"),
	}, "operario-2")
	require.NoError(t, err)
	assert.True(t, second.Items[0].ReservedQty.Equal(dec("10")),
		"la lista perdedora reserva el resto")
	assert.True(t, second.Items[0].QuantityShort.Equal(dec("30")))
}

// Caso 3: Escanear por SKU consume reserva y stock, registra el pick en el
// log y mueve la lista a in_progress.
func TestScan_FlujoNominal(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "100", false)
	f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)

	line, err := f.uc.Scan(ctx, list.ID, dto.ScanRequest{
		Barcode: "TOR-M8", Quantity: dec("40"),
	}, "operario-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickItemPicked, line.Status)
	assert.True(t, line.PickedQty.Equal(dec("40")))

	got, err := f.uc.GetByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickListInProgress, got.Status)

	rec := f.stock(t, "tornillo")
	assert.True(t, rec.Quantity.Equal(dec("60")), "el pick consume cantidad en mano")
	assert.True(t, rec.Reserved.IsZero(), "el pick consume la reserva")

	txs, err := f.txRepo.ListByPickList(list.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TxTypePick, txs[0].Type)
	assert.Equal(t, "orden-1", txs[0].OrderID)
}

// Caso 4: Un código que no corresponde a ninguna línea abierta no muta nada.
func TestScan_CodigoNoCorresponde(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "100", false)
	f.seedItem(t, "tuerca", "TUE-M8", "100", false)
	f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)

	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "TUE-M8", Quantity: dec("1")}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrBarcodeMismatch, "la tuerca no está en la lista")

	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "XX-NADA", Quantity: dec("1")}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrBarcodeMismatch)

	rec := f.stock(t, "tornillo")
	assert.True(t, rec.Quantity.Equal(dec("100")), "un escaneo rechazado no muta stock")
	assert.True(t, rec.Reserved.Equal(dec("40")))
}

// Caso 5: No se puede pickear por encima de la reserva pendiente de la línea.
func TestScan_ExcedeReserva(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "30", false)
	f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)

	// Reservadas 30 de 40 requeridas: pickear 40 excede la reserva.
	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "TOR-M8", Quantity: dec("40")}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "TOR-M8", Quantity: dec("30")}, "operario-1")
	require.NoError(t, err)
}

// Caso 6: Escaneo de ítem serializado usa la serie como código y exige cantidad 1.
func TestScan_ItemSerializado(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "motor", "MOT-5HP", "", true)
	f.seedBOM(t, "motor", "1")
	ctx := context.Background()

	_, err := f.ledgerUC.Receive(ctx, ledger.ReceiveInput{
		ItemID: "motor", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("500"), Serial: "SN-001",
	})
	require.NoError(t, err)

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)

	// El SKU no basta: el código debe ser la serie de la unidad.
	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "MOT-5HP", Quantity: dec("1")}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	line, err := f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "SN-001", Quantity: dec("1")}, "operario-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickItemPicked, line.Status)

	unit, err := f.serialRepo.Get("SN-001")
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, entity.SerialInUse, unit.Status, "la unidad pasa a in_use")
	assert.Equal(t, "orden-1", unit.OrderID)
}

// Caso 6b: Una unidad reservada para otra orden no se puede consumir desde
// este picking; reservada para la misma orden sí.
func TestScan_UnidadReservadaParaOtraOrden(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "motor", "MOT-5HP", "", true)
	f.seedBOM(t, "motor", "1")
	ctx := context.Background()

	_, err := f.ledgerUC.Receive(ctx, ledger.ReceiveInput{
		ItemID: "motor", ToLocation: "almacen", Quantity: dec("1"), UnitCost: dec("500"), Serial: "SN-001",
	})
	require.NoError(t, err)

	unit, err := f.serialRepo.Get("SN-001")
	require.NoError(t, err)
	unit.Status = entity.SerialReserved
	unit.OrderID = "orden-ajena"
	require.NoError(t, f.serialRepo.Update(unit))

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)

	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "SN-001", Quantity: dec("1")}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "la unidad pertenece a otra orden")

	rec := f.stock(t, "motor")
	assert.True(t, rec.Quantity.Equal(dec("1")), "el escaneo rechazado no muta stock")

	// Con la orden correcta la misma unidad sí se consume.
	unit.OrderID = "orden-1"
	require.NoError(t, f.serialRepo.Update(unit))
	line, err := f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "SN-001", Quantity: dec("1")}, "operario-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickItemPicked, line.Status)
}

// Caso 7: Completar exige líneas resueltas; las reservas sobrantes de líneas
// short se liberan y la BOM queda congelada.
func TestComplete_LiberaYCongelaBOM(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "100", false)
	bomID := f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)

	_, err = f.uc.Complete(ctx, list.ID, "operario-1")
	assert.ErrorIs(t, err, domain.ErrIncompletePickList, "con líneas pending no se completa")

	// Pick parcial y omisión del resto por un supervisor.
	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "TOR-M8", Quantity: dec("25")}, "operario-1")
	require.NoError(t, err)
	_, err = f.uc.SkipItem(ctx, list.ID, "tornillo", "supervisor-1")
	require.NoError(t, err)

	done, err := f.uc.Complete(ctx, list.ID, "operario-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListCompleted, done.Status)

	rec := f.stock(t, "tornillo")
	assert.True(t, rec.Reserved.IsZero(), "ninguna reserva queda colgada")
	assert.True(t, rec.Quantity.Equal(dec("75")))

	frozen, err := f.bomRepo.GetByID(bomID)
	require.NoError(t, err)
	assert.True(t, frozen.Locked, "la BOM referenciada queda congelada")
}

// Caso 8: Cancelar libera las reservas pendientes; cancelar dos veces falla.
func TestCancel_LiberaReservas(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "100", false)
	f.seedBOM(t, "tornillo", "40")
	ctx := context.Background()

	list, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	require.NoError(t, err)
	require.True(t, f.stock(t, "tornillo").Reserved.Equal(dec("40")))

	cancelled, err := f.uc.Cancel(ctx, list.ID, "operario-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickListCancelled, cancelled.Status)
	assert.True(t, f.stock(t, "tornillo").Reserved.IsZero(),
		"cancelar devuelve la reserva al disponible")

	_, err = f.uc.Cancel(ctx, list.ID, "operario-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "la doble cancelación debe ser detectable")

	_, err = f.uc.Scan(ctx, list.ID, dto.ScanRequest{Barcode: "TOR-M8", Quantity: dec("1")}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una lista terminal no acepta escaneos")
}

// Caso 9: Generate falla sin BOM resoluble y con entradas inválidas.
func TestGenerate_Rechazos(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "tornillo", "TOR-M8", "100", false)
	ctx := context.Background()

	_, err := f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrNoBOMFound)

	f.seedBOM(t, "tornillo", "40")
	_, err = f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "", ProductType: "silla", Quantity: dec("1"),
	}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Generate(ctx, dto.GeneratePickListRequest{
		OrderID: "orden-1", ProductType: "silla", Quantity: decimal.Zero,
	}, "operario-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package http_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/alerts"
	"github.com/jhoicas/Planta-api/internal/application/bom"
	"github.com/jhoicas/Planta-api/internal/application/catalog"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/application/picking"
	"github.com/jhoicas/Planta-api/internal/application/serial"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/infrastructure/memory"
	httpapi "github.com/jhoicas/Planta-api/internal/interfaces/http"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de rutas (router completo sobre repos en memoria)
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app    *fiber.App
	store  *memory.Store
	itemUC *catalog.ItemUseCase
	txRepo *memory.TransactionRepo
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	stockRepo := memory.NewStockRepository(store)
	txRepo := memory.NewTransactionRepository(store)
	serialRepo := memory.NewSerialRepository(store)
	bomRepo := memory.NewBOMRepository(store)
	pickRepo := memory.NewPickListRepository(store)
	alertRepo := memory.NewAlertRepository(store)

	ledgerUC := ledger.NewLedgerUseCase(
		runner, runner,
		itemRepo, locationRepo, stockRepo, txRepo,
		nil, nil, logger.Nop(),
	)
	bomUC := bom.NewEngineUseCase(bomRepo, itemRepo)

	app := fiber.New()
	httpapi.Router(app, httpapi.RouterDeps{
		ItemUC:     catalog.NewItemUseCase(itemRepo, locationRepo),
		LocationUC: catalog.NewLocationUseCase(locationRepo),
		LedgerUC:   ledgerUC,
		SerialUC:   serial.NewRegistryUseCase(serialRepo, itemRepo),
		BOMUC:      bomUC,
		PickingUC:  picking.NewOrchestrator(runner, ledgerUC, bomUC, pickRepo, logger.Nop()),
		AlertUC:    alerts.NewMonitor(alertRepo, logger.Nop()),
		JWTSecret:  testSecret,
	})

	require.NoError(t, locationRepo.Create(&entity.Location{
		Code: "almacen", Name: "Almacén", Type: entity.LocationStorage, Active: true, CreatedAt: time.Now(),
	}))
	return &apiFixture{
		app:    app,
		store:  store,
		itemUC: catalog.NewItemUseCase(itemRepo, locationRepo),
		txRepo: txRepo,
	}
}

func doGet(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "operario"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

// Caso 1: Consultar un recurso inexistente devuelve 404 explícito,
// nunca 200 con cuerpo null.
func TestGet_RecursoInexistenteEs404(t *testing.T) {
	f := newAPI(t)

	paths := []string{
		"/api/items/fantasma",
		"/api/items/sku/XX-NADA",
		"/api/locations/nave-x",
		"/api/serials/SN-NADA",
		"/api/pick-lists/fantasma",
	}
	for _, path := range paths {
		status, body := doGet(t, f.app, path)
		assert.Equal(t, fiber.StatusNotFound, status, "GET %s", path)
		assert.NotEqual(t, "null", string(body), "GET %s no debe serializar null", path)
	}
}

// Caso 2: El mismo GET con el recurso existente devuelve 200 y el cuerpo.
func TestGet_RecursoExistenteEs200(t *testing.T) {
	f := newAPI(t)
	created, err := f.itemUC.Create(dto.CreateItemRequest{
		SKU: "TOR-M8", Name: "Tornillo M8", Category: entity.CategoryComponent,
		UnitMeasure: "unidad", DefaultLocation: "almacen",
	})
	require.NoError(t, err)

	status, body := doGet(t, f.app, "/api/items/"+created.ID)
	assert.Equal(t, fiber.StatusOK, status)
	var got dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "TOR-M8", got.SKU)

	status, _ = doGet(t, f.app, "/api/items/sku/TOR-M8")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = doGet(t, f.app, "/api/locations/almacen")
	assert.Equal(t, fiber.StatusOK, status)
}

// Caso 3: Las transacciones de una lista de picking se consultan por ruta
// propia y vienen filtradas por la lista.
func TestGet_TransaccionesDePickList(t *testing.T) {
	f := newAPI(t)
	now := time.Now()
	require.NoError(t, f.txRepo.Append(&entity.Transaction{
		ID: "tx-1", Type: entity.TxTypePick, ItemID: "tornillo",
		FromLocation: "almacen", Quantity: decimal.NewFromInt(5),
		UnitCost: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(5),
		PickListID: "pl-1", OrderID: "orden-1", CreatedAt: now,
	}))
	require.NoError(t, f.txRepo.Append(&entity.Transaction{
		ID: "tx-2", Type: entity.TxTypePick, ItemID: "tornillo",
		FromLocation: "almacen", Quantity: decimal.NewFromInt(3),
		UnitCost: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(3),
		PickListID: "pl-2", OrderID: "orden-1", CreatedAt: now,
	}))

	status, body := doGet(t, f.app, "/api/pick-lists/pl-1/transactions")
	require.Equal(t, fiber.StatusOK, status)
	var txs []dto.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &txs))
	require.Len(t, txs, 1, "solo las transacciones de la lista pedida")
	assert.Equal(t, "tx-1", txs[0].ID)

	status, body = doGet(t, f.app, "/api/pick-lists/pl-9/transactions")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &txs))
	assert.Empty(t, txs)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/alerts"
	"github.com/jhoicas/Planta-api/internal/application/bom"
	"github.com/jhoicas/Planta-api/internal/application/catalog"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/application/picking"
	"github.com/jhoicas/Planta-api/internal/application/serial"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *catalog.ItemUseCase
	LocationUC *catalog.LocationUseCase
	LedgerUC   *ledger.LedgerUseCase
	SerialUC   *serial.RegistryUseCase
	BOMUC      *bom.EngineUseCase
	PickingUC  *picking.Orchestrator
	AlertUC    *alerts.Monitor
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas de negocio exigen
// Bearer Token; las privilegiadas exigen además el rol supervisor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	supervisor := RequireRole(RoleSupervisor)

	// Catálogo de ítems
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/sku/:sku", itemHandler.GetBySKU)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Deactivate)

	// Ubicaciones
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:code", locationHandler.GetByCode)
	locations.Delete("/:code", locationHandler.Deactivate)

	// Ledger de stock
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Post("/receive", inventoryHandler.Receive)
	inv.Post("/transfer", inventoryHandler.Transfer)
	inv.Post("/adjust", supervisor, inventoryHandler.Adjust)
	inv.Post("/return", inventoryHandler.Return)
	inv.Post("/scrap", inventoryHandler.Scrap)
	inv.Post("/rebuild", supervisor, inventoryHandler.Rebuild)
	inv.Get("/stock/:item_id", inventoryHandler.GetStock)
	inv.Get("/transactions/:item_id", inventoryHandler.ListTransactions)
	inv.Get("/orders/:order_id/transactions", inventoryHandler.ListOrderTransactions)

	// Registro de series
	serials := protected.Group("/serials")
	serialHandler := NewSerialHandler(deps.SerialUC)
	serials.Post("/", serialHandler.Register)
	serials.Get("/", serialHandler.ListByItem)
	serials.Get("/:serial", serialHandler.Get)
	serials.Post("/:serial/transition", serialHandler.Transition)

	// Listas de materiales
	boms := protected.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms.Post("/", bomHandler.Create)
	boms.Get("/", bomHandler.ListByProductType)
	boms.Get("/resolve", bomHandler.Resolve)
	boms.Get("/:id", bomHandler.GetByID)
	boms.Put("/:id", bomHandler.Update)
	boms.Post("/:id/new-version", bomHandler.NewVersion)

	// Listas de picking
	picks := protected.Group("/pick-lists")
	pickingHandler := NewPickingHandler(deps.PickingUC)
	picks.Post("/", pickingHandler.Generate)
	picks.Get("/", pickingHandler.ListByOrder)
	picks.Get("/:id", pickingHandler.GetByID)
	picks.Post("/:id/scan", pickingHandler.Scan)
	picks.Post("/:id/complete", pickingHandler.Complete)
	picks.Post("/:id/skip", supervisor, pickingHandler.Skip)
	picks.Post("/:id/cancel", pickingHandler.Cancel)
	picks.Get("/:id/transactions", inventoryHandler.ListPickListTransactions)

	// Alertas de stock
	alertGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertGroup.Get("/", alertHandler.ListOpen)
	alertGroup.Post("/:id/ack", alertHandler.Acknowledge)
}

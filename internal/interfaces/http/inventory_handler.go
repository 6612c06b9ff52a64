package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del ledger de stock (protegido).
type InventoryHandler struct {
	uc *ledger.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *ledger.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "item_id, to_location, quantity, unit_cost; serial para ítems con seguimiento individual"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Receive(c.Context(), ledger.ReceiveInput{
		ItemID:     in.ItemID,
		ToLocation: in.ToLocation,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reference:  in.Reference,
		Serial:     in.Serial,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from_location, to_location, quantity; override permite mover stock reservado (ítems por lote)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Transfer(c.Context(), ledger.TransferInput{
		ItemID:       in.ItemID,
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		Quantity:     in.Quantity,
		Override:     in.Override,
		Serial:       in.Serial,
		Actor:        GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Adjust godoc
// @Summary      Ajuste de inventario (conteo físico)
// @Description  Fija la cantidad en mano al valor indicado y registra el delta firmado. Requiere rol supervisor.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "item_id, location, new_quantity, reason (obligatorio)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Adjust(c.Context(), ledger.AdjustInput{
		ItemID:      in.ItemID,
		Location:    in.Location,
		NewQuantity: in.NewQuantity,
		Reason:      in.Reason,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Return godoc
// @Summary      Registrar devolución de material
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReturnRequest  true  "item_id, to_location, quantity"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/return [post]
func (h *InventoryHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Return(c.Context(), ledger.ReturnInput{
		ItemID:     in.ItemID,
		ToLocation: in.ToLocation,
		Quantity:   in.Quantity,
		Reference:  in.Reference,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Scrap godoc
// @Summary      Dar de baja material dañado
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScrapRequest  true  "item_id, from_location, quantity; serial para ítems con seguimiento individual"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/scrap [post]
func (h *InventoryHandler) Scrap(c *fiber.Ctx) error {
	var in dto.ScrapRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.uc.Scrap(c.Context(), ledger.ScrapInput{
		ItemID:       in.ItemID,
		FromLocation: in.FromLocation,
		Quantity:     in.Quantity,
		Serial:       in.Serial,
		Reason:       in.Reason,
		Actor:        GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// GetStock godoc
// @Summary      Stock actual de un ítem
// @Description  Sin query location devuelve todas las ubicaciones del ítem.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id   path   string  true   "ID del ítem"
// @Param        location  query  string  false  "Código de ubicación"
// @Success      200  {array}   dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{item_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	itemID := c.Params("item_id")
	location := c.Query("location")
	if location != "" {
		rec, err := h.uc.CurrentStock(c.Context(), itemID, location)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON([]dto.StockResponse{toStockResponse(rec)})
	}
	records, err := h.uc.CurrentStockByItem(c.Context(), itemID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toStockResponse(rec))
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Historial de transacciones de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  path   string  true   "ID del ítem"
// @Param        limit    query  int     false  "Máximo de resultados (default 20, tope 100)"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/inventory/transactions/{item_id} [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	txs, err := h.uc.TransactionsForItem(c.Context(), c.Params("item_id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.JSON(out)
}

// ListOrderTransactions godoc
// @Summary      Transacciones vinculadas a una orden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        order_id  path  string  true  "ID de la orden"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/inventory/orders/{order_id}/transactions [get]
func (h *InventoryHandler) ListOrderTransactions(c *fiber.Ctx) error {
	txs, err := h.uc.TransactionsForOrder(c.Context(), c.Params("order_id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.JSON(out)
}

// ListPickListTransactions godoc
// @Summary      Transacciones vinculadas a una lista de picking
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la lista de picking"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/pick-lists/{id}/transactions [get]
func (h *InventoryHandler) ListPickListTransactions(c *fiber.Ctx) error {
	txs, err := h.uc.TransactionsForPickList(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return c.JSON(out)
}

// Rebuild godoc
// @Summary      Reconstruir el stock desde el log
// @Description  Reproduce el log completo de transacciones y reescribe los StockRecord. Requiere rol supervisor.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	count, err := h.uc.RebuildFromLog(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"records": count})
}

func toStockResponse(rec *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		ItemID:    rec.ItemID,
		Location:  rec.Location,
		Quantity:  rec.Quantity,
		Reserved:  rec.Reserved,
		Available: rec.Available(),
		UpdatedAt: rec.UpdatedAt,
	}
}

func toTransactionResponse(tx *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           tx.ID,
		Seq:          tx.Seq,
		Type:         tx.Type,
		ItemID:       tx.ItemID,
		Serial:       tx.Serial,
		FromLocation: tx.FromLocation,
		ToLocation:   tx.ToLocation,
		Quantity:     tx.Quantity,
		UnitCost:     tx.UnitCost,
		TotalCost:    tx.TotalCost,
		Reference:    tx.Reference,
		PickListID:   tx.PickListID,
		OrderID:      tx.OrderID,
		CreatedBy:    tx.CreatedBy,
		CreatedAt:    tx.CreatedAt,
	}
}

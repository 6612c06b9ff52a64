package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/picking"
)

// PickingHandler maneja las peticiones HTTP de listas de picking (protegido).
type PickingHandler struct {
	uc *picking.Orchestrator
}

// NewPickingHandler construye el handler.
func NewPickingHandler(uc *picking.Orchestrator) *PickingHandler {
	return &PickingHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar lista de picking para una orden
// @Description  Resuelve la BOM, despliega los requerimientos y reserva el disponible. Las líneas con faltante quedan marcadas short desde la generación.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GeneratePickListRequest  true  "order_id, product_type, quantity; bom_id opcional fija una BOM explícita"
// @Success      201   {object}  dto.PickListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pick-lists [post]
func (h *PickingHandler) Generate(c *fiber.Ctx) error {
	var in dto.GeneratePickListRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	list, err := h.uc.Generate(c.Context(), in, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// Scan godoc
// @Summary      Escanear un ítem contra la lista
// @Description  El código de barras es el SKU, o el número de serie para ítems con seguimiento individual. El pick consume la reserva de la línea.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la lista"
// @Param        body  body  dto.ScanRequest  true  "barcode, quantity"
// @Success      200   {object}  dto.PickListItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/scan [post]
func (h *PickingHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.Scan(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(line)
}

// Complete godoc
// @Summary      Completar la lista de picking
// @Description  Exige que no queden líneas pending; libera las reservas remanentes de líneas short y congela la BOM referenciada.
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la lista"
// @Success      200  {object}  dto.PickListResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/complete [post]
func (h *PickingHandler) Complete(c *fiber.Ctx) error {
	list, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// Skip godoc
// @Summary      Omitir una línea de la lista
// @Description  Libera la reserva pendiente de la línea y la marca skipped. Acción auditada; requiere rol supervisor.
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la lista"
// @Param        body  body  dto.SkipItemRequest  true  "item_id"
// @Success      200   {object}  dto.PickListItemResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/skip [post]
func (h *PickingHandler) Skip(c *fiber.Ctx) error {
	var in dto.SkipItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.uc.SkipItem(c.Context(), c.Params("id"), in.ItemID, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(line)
}

// Cancel godoc
// @Summary      Cancelar la lista de picking
// @Description  Libera todas las reservas pendientes y deja la lista en cancelled.
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la lista"
// @Success      200  {object}  dto.PickListResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id}/cancel [post]
func (h *PickingHandler) Cancel(c *fiber.Ctx) error {
	list, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Consultar una lista de picking
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la lista"
// @Success      200  {object}  dto.PickListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pick-lists/{id} [get]
func (h *PickingHandler) GetByID(c *fiber.Ctx) error {
	list, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if list == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lista no encontrada"})
	}
	return c.JSON(list)
}

// ListByOrder godoc
// @Summary      Listas de picking de una orden
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        order_id  query  string  true  "ID de la orden"
// @Success      200  {array}  dto.PickListResponse
// @Router       /api/pick-lists [get]
func (h *PickingHandler) ListByOrder(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "order_id requerido"})
	}
	lists, err := h.uc.ListByOrder(c.Context(), orderID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(lists)
}

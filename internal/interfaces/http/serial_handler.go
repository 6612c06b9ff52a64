package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/serial"
)

// SerialHandler maneja las peticiones HTTP del registro de series (protegido).
type SerialHandler struct {
	uc *serial.RegistryUseCase
}

// NewSerialHandler construye el handler.
func NewSerialHandler(uc *serial.RegistryUseCase) *SerialHandler {
	return &SerialHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar unidad con número de serie
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSerialRequest  true  "serial, item_id, location, cost"
// @Success      201   {object}  dto.SerialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/serials [post]
func (h *SerialHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.RegisterUnit(in.Serial, in.ItemID, in.Location, in.Cost)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Transition godoc
// @Summary      Transicionar el estado de una unidad
// @Description  Aplica la tabla de transiciones (in_stock → reserved → in_use → shipped; scrapped desde no terminales). Reservar exige order_id.
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        serial  path  string                       true  "Número de serie"
// @Param        body    body  dto.TransitionSerialRequest  true  "new_status; order_id al reservar"
// @Success      200     {object}  dto.SerialResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/serials/{serial}/transition [post]
func (h *SerialHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Transition(c.Params("serial"), in.NewStatus, in.OrderID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary      Consultar unidad por serie
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        serial  path  string  true  "Número de serie"
// @Success      200  {object}  dto.SerialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/serials/{serial} [get]
func (h *SerialHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Params("serial"))
	if err != nil {
		return domainError(c, err)
	}
	if resp == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "serie no encontrada"})
	}
	return c.JSON(resp)
}

// ListByItem godoc
// @Summary      Listar unidades de un ítem
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  true   "ID del ítem"
// @Param        limit    query  int     false  "Máximo de resultados"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.SerialResponse
// @Router       /api/serials [get]
func (h *SerialHandler) ListByItem(c *fiber.Ctx) error {
	itemID := c.Query("item_id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByItem(itemID, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

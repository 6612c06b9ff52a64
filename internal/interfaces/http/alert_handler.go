package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/alerts"
)

// AlertHandler maneja las peticiones HTTP de alertas de stock (protegido).
type AlertHandler struct {
	monitor *alerts.Monitor
}

// NewAlertHandler construye el handler.
func NewAlertHandler(monitor *alerts.Monitor) *AlertHandler {
	return &AlertHandler{monitor: monitor}
}

// ListOpen godoc
// @Summary      Alertas abiertas
// @Description  Devuelve las alertas sin reconocer (low_stock y out_of_stock).
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListOpen(c *fiber.Ctx) error {
	list, err := h.monitor.ListOpen(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// Acknowledge godoc
// @Summary      Reconocer una alerta
// @Description  Única vía para cerrar una alerta; la recuperación del stock no la cierra sola.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/ack [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	resp, err := h.monitor.Acknowledge(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

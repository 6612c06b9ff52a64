package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Planta-api/internal/application/bom"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// BOMHandler maneja las peticiones HTTP de listas de materiales (protegido).
type BOMHandler struct {
	uc *bom.EngineUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.EngineUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Crear BOM
// @Description  Si is_default es true, desplaza la default anterior del (tipo, variante).
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "product_type, name, components; variant opcional"
// @Success      201   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar BOM
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la BOM"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(bomToResponse(b))
}

// Resolve godoc
// @Summary      Resolver la BOM default para un producto
// @Description  Busca primero la default exacta (tipo, variante) y luego la genérica del tipo.
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        product_type  query  string  true   "Tipo de producto"
// @Param        variant       query  string  false  "Variante"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/resolve [get]
func (h *BOMHandler) Resolve(c *fiber.Ctx) error {
	productType := c.Query("product_type")
	if productType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_type requerido"})
	}
	b, err := h.uc.Resolve(productType, c.Query("variant"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(bomToResponse(b))
}

// Update godoc
// @Summary      Editar BOM no congelada
// @Description  Una BOM congelada (referenciada por un picking completado) rechaza la edición; usar new-version.
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la BOM"
// @Param        body  body  dto.CreateBOMRequest  true  "campos a reemplazar"
// @Success      200   {object}  dto.BOMResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [put]
func (h *BOMHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// NewVersion godoc
// @Summary      Crear nueva versión de una BOM
// @Description  Hereda el linaje (versión + 1) y desactiva la versión anterior.
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la BOM base"
// @Param        body  body  dto.CreateBOMRequest  true  "contenido de la nueva versión"
// @Success      201   {object}  dto.BOMResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/new-version [post]
func (h *BOMHandler) NewVersion(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.NewVersion(c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListByProductType godoc
// @Summary      Listar BOMs de un tipo de producto
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        product_type  query  string  true  "Tipo de producto"
// @Success      200  {array}  dto.BOMResponse
// @Router       /api/boms [get]
func (h *BOMHandler) ListByProductType(c *fiber.Ctx) error {
	productType := c.Query("product_type")
	if productType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_type requerido"})
	}
	list, err := h.uc.ListByProductType(productType)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

func bomToResponse(b *entity.BillOfMaterials) dto.BOMResponse {
	comps := make([]dto.BOMComponentResponse, 0, len(b.Components))
	for _, comp := range b.Components {
		comps = append(comps, dto.BOMComponentResponse{
			ItemID:     comp.ItemID,
			QtyPerUnit: comp.QtyPerUnit,
			Optional:   comp.Optional,
		})
	}
	return dto.BOMResponse{
		ID:          b.ID,
		ProductType: b.ProductType,
		Variant:     b.Variant,
		Name:        b.Name,
		Version:     b.Version,
		IsDefault:   b.IsDefault,
		Active:      b.Active,
		Locked:      b.Locked,
		Components:  comps,
		CreatedAt:   b.CreatedAt,
	}
}

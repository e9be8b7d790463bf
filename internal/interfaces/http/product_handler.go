package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para productos (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func productFilters(c *fiber.Ctx) usecase.ProductFilters {
	return usecase.ProductFilters{
		CategoriaID: int64(c.QueryInt("categoria", 0)),
		Estado:      c.Query("estado", "todos"),
	}
}

// List listado paginado con búsqueda, orden y filtros; con export=xlsx
// devuelve la planilla del conjunto completo.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	p := listParams(c)
	f := productFilters(c)
	if wantsExport(c) {
		buf, filename, err := h.uc.ExportXLSX(c.Context(), p, f)
		if err != nil {
			return respondExportError(c, err)
		}
		return sendXLSX(c, buf, filename)
	}
	return c.JSON(h.uc.List(c.Context(), p, f))
}

// Search autocompletado, a lo más 10 resultados.
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	items, err := h.uc.SearchTop(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// GetByID obtiene un producto.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create alta de producto.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Update edición de producto.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Delete baja de producto.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: id})
}

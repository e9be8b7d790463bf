package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/usecase"
)

// SupplierHandler maneja proveedores y la relación proveedor-producto (protegido).
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// List listado paginado de proveedores; con export=xlsx devuelve la planilla.
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	p := listParams(c)
	f := usecase.SupplierFilters{Estado: c.Query("estado", "todos")}
	if wantsExport(c) {
		buf, filename, err := h.uc.ExportXLSX(c.Context(), p, f)
		if err != nil {
			return respondExportError(c, err)
		}
		return sendXLSX(c, buf, filename)
	}
	return c.JSON(h.uc.List(c.Context(), p, f))
}

// Search autocompletado de proveedores.
func (h *SupplierHandler) Search(c *fiber.Ctx) error {
	items, err := h.uc.SearchTop(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// GetByID obtiene un proveedor.
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
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

// Create alta de proveedor.
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Update edición de proveedor.
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Delete baja de proveedor.
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: id})
}

// ListRelations listado paginado de relaciones proveedor-producto.
func (h *SupplierHandler) ListRelations(c *fiber.Ctx) error {
	p := listParams(c)
	if wantsExport(c) {
		return h.ExportRelations(c)
	}
	return c.JSON(h.uc.ListRelations(c.Context(), p))
}

// SearchRelations autocompletado de relaciones.
func (h *SupplierHandler) SearchRelations(c *fiber.Ctx) error {
	items, err := h.uc.SearchRelations(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// ExportRelations planilla de relaciones.
func (h *SupplierHandler) ExportRelations(c *fiber.Ctx) error {
	buf, filename, err := h.uc.ExportRelationsXLSX(c.Context(), listParams(c))
	if err != nil {
		return respondExportError(c, err)
	}
	return sendXLSX(c, buf, filename)
}

// UpsertRelation crea o actualiza la relación proveedor-producto.
func (h *SupplierHandler) UpsertRelation(c *fiber.Ctx) error {
	var in dto.RelationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpsertRelation(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

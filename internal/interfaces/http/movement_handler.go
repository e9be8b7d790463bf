package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/usecase"
)

// MovementHandler maneja el libro de movimientos de inventario (protegido).
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

func movementFilters(c *fiber.Ctx) usecase.MovementFilters {
	return usecase.MovementFilters{
		Tipo:       c.Query("tipo"),
		ProductoID: int64(c.QueryInt("producto", 0)),
	}
}

// List listado paginado del libro; con export=xlsx devuelve la planilla.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	p := listParams(c)
	f := movementFilters(c)
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
func (h *MovementHandler) Search(c *fiber.Ctx) error {
	items, err := h.uc.SearchTop(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// GetByID obtiene un movimiento.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
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

// Create asienta un movimiento. El actor autenticado queda como creador.
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Update corrige tipo y cantidad.
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Delete elimina un asiento del libro.
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: id})
}

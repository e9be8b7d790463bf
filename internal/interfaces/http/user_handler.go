package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dulceria-lilis/erp-api/internal/application/dto"
	"github.com/dulceria-lilis/erp-api/internal/application/usecase"
	"github.com/dulceria-lilis/erp-api/internal/domain/authz"
)

// UserHandler gestión de cuentas (puerta de administración).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

func userFilters(c *fiber.Ctx) usecase.UserFilters {
	return usecase.UserFilters{
		Rol:    c.Query("rol"),
		Estado: c.Query("estado"),
	}
}

// List listado paginado de usuarios; con export=xlsx devuelve la planilla.
func (h *UserHandler) List(c *fiber.Ctx) error {
	p := listParams(c)
	f := userFilters(c)
	if wantsExport(c) {
		buf, filename, err := h.uc.ExportXLSX(c.Context(), p, f)
		if err != nil {
			return respondExportError(c, err)
		}
		return sendXLSX(c, buf, filename)
	}
	return c.JSON(h.uc.List(c.Context(), p, f))
}

// GetByID obtiene un usuario.
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
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

// Create provisiona una cuenta y despacha la invitación por correo.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Update edición de usuario.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: out.ID})
}

// Delete elimina una cuenta (con protecciones de auto-acción y privilegio).
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.Context(), GetPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: id})
}

// Deactivate pasa la cuenta a inactivo.
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	return h.status(c, h.uc.Deactivate)
}

// Reactivate vuelve la cuenta a activo.
func (h *UserHandler) Reactivate(c *fiber.Ctx) error {
	return h.status(c, h.uc.Reactivate)
}

// Block pasa la cuenta a bloqueado.
func (h *UserHandler) Block(c *fiber.Ctx) error {
	return h.status(c, h.uc.Block)
}

func (h *UserHandler) status(c *fiber.Ctx, fn func(ctx context.Context, actor authz.Principal, id int64) error) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id inválido"})
	}
	if err := fn(c.Context(), GetPrincipal(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MutationResponse{OK: true, ID: id})
}

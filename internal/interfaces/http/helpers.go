package http

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dulceria-lilis/erp-api/internal/application/export"
	"github.com/dulceria-lilis/erp-api/internal/application/listing"
	"github.com/dulceria-lilis/erp-api/internal/domain"
)

// listParams extrae q, sort y page del query string.
func listParams(c *fiber.Ctx) listing.Params {
	return listing.Params{
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
		Page:  c.QueryInt("page", 1),
	}
}

// wantsExport indica si el listado pidió la planilla en vez de la página.
func wantsExport(c *fiber.Ctx) bool {
	return c.Query("export") == "xlsx"
}

// sendXLSX responde la planilla como attachment.
func sendXLSX(c *fiber.Ctx, buf *bytes.Buffer, filename string) error {
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// respondExportError una exportación fallida no degrada a archivo vacío.
func respondExportError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dtoError("EXPORT_UNAVAILABLE", "no se pudo generar la exportación", nil))
}

// respondError mapea errores de dominio a códigos HTTP. Los errores de
// validación devuelven todos los campos juntos con ok:false, según el
// contrato de los mutadores.
func respondError(c *fiber.Ctx, err error) error {
	if verr, ok := domain.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":     false,
			"code":   "VALIDATION",
			"errors": verr,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dtoError("NOT_FOUND", "recurso no encontrado", nil))
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dtoError("NOT_FOUND", "usuario no encontrado", nil))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dtoError("DUPLICATE", "recurso duplicado", nil))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dtoError("UNAUTHORIZED", "credenciales inválidas", nil))
	case errors.Is(err, domain.ErrInactiveUser):
		return c.Status(fiber.StatusForbidden).JSON(dtoError("INACTIVE_USER", err.Error(), nil))
	case errors.Is(err, domain.ErrSelfAction):
		return c.Status(fiber.StatusForbidden).JSON(dtoError("SELF_ACTION", err.Error(), nil))
	case errors.Is(err, domain.ErrProtectedUser):
		return c.Status(fiber.StatusForbidden).JSON(dtoError("PROTECTED_USER", err.Error(), nil))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dtoError("FORBIDDEN", "acceso denegado", nil))
	case errors.Is(err, domain.ErrInvalidInviteCode):
		return c.Status(fiber.StatusBadRequest).JSON(dtoError("INVALID_INVITE_CODE", err.Error(), nil))
	case errors.Is(err, domain.ErrMailDispatch):
		return c.Status(fiber.StatusInternalServerError).JSON(dtoError("MAIL_FAILED", err.Error(), nil))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dtoError("INTERNAL", err.Error(), nil))
	}
}

func dtoError(code, msg string, fields map[string]string) fiber.Map {
	out := fiber.Map{"code": code, "message": msg}
	if len(fields) > 0 {
		out["errors"] = fields
	}
	return out
}

// parseID lee el parámetro :id como entero positivo.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("id inválido")
	}
	return int64(id), nil
}

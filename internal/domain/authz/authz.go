package authz

import "github.com/dulceria-lilis/erp-api/internal/domain/entity"

// Principal es el actor autenticado ya resuelto desde la sesión.
// Es lo mínimo que necesita la puerta de roles, sin cargar el User completo.
type Principal struct {
	ID          int64
	Username    string
	Role        string
	IsSuperuser bool
}

// PrincipalOf construye el Principal de un usuario.
func PrincipalOf(u *entity.User) Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role, IsSuperuser: u.IsSuperuser}
}

// Allowed decide si el principal puede invocar una operación restringida a
// los roles indicados: superusuario siempre pasa, si no el rol debe estar
// en el conjunto. Función pura, sin efectos.
func Allowed(p Principal, required ...string) bool {
	if p.IsSuperuser {
		return true
	}
	for _, r := range required {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin puerta estricta del módulo de gestión de usuarios.
func IsAdmin(p Principal) bool {
	return p.IsSuperuser || p.Role == entity.RoleAdmin
}

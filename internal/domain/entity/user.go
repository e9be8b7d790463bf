package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "ADMIN"
	RoleCompras    = "COMPRAS"
	RoleInventario = "INVENTARIO"
	RoleProduccion = "PRODUCCION"
	RoleVentas     = "VENTAS"
	RoleFinanzas   = "FINANZAS"
)

// Estados de cuenta.
const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
	StatusBlocked  = "bloqueado"
)

// ValidRole indica si role pertenece al conjunto enumerado.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCompras, RoleInventario, RoleProduccion, RoleVentas, RoleFinanzas:
		return true
	}
	return false
}

// User representa un usuario del sistema.
// PasswordHash es bcrypt; nunca viaja en respuestas.
type User struct {
	ID                 int64
	Username           string
	Email              string
	FirstName          string
	LastName           string
	Phone              string
	PasswordHash       string
	Role               string // ADMIN, COMPRAS, INVENTARIO, PRODUCCION, VENTAS, FINANZAS
	IsSuperuser        bool
	Status             string // activo, inactivo, bloqueado
	MFAEnabled         bool
	MustChangePassword bool
	InviteCode         string // código de verificación para el primer acceso
	LastLogin          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName nombre y apellido, o username si están vacíos.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

package dto

import "time"

// CreateUserRequest alta de usuario por un administrador. No acepta
// contraseña: se provisiona una temporal y un código de verificación que se
// despachan por correo.
type CreateUserRequest struct {
	Username      string `json:"username" form:"username"`
	Email         string `json:"email" form:"email"`
	Nombres       string `json:"first_name" form:"first_name"`
	Apellidos     string `json:"last_name" form:"last_name"`
	Telefono      string `json:"telefono" form:"telefono"`
	Rol           string `json:"rol" form:"rol"`
	MFAHabilitado bool   `json:"mfa_habilitado" form:"mfa_habilitado"`
}

// UpdateUserRequest edición de usuario. Password es opcional y queda sujeta
// a la política fuerte.
type UpdateUserRequest struct {
	Username      *string `json:"username" form:"username"`
	Email         *string `json:"email" form:"email"`
	Nombres       *string `json:"first_name" form:"first_name"`
	Apellidos     *string `json:"last_name" form:"last_name"`
	Telefono      *string `json:"telefono" form:"telefono"`
	Rol           *string `json:"rol" form:"rol"`
	MFAHabilitado *bool   `json:"mfa_habilitado" form:"mfa_habilitado"`
	Password      *string `json:"password" form:"password"`
}

// UserResponse usuario para respuestas, sin hash ni código de invitación.
type UserResponse struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Nombres       string     `json:"first_name"`
	Apellidos     string     `json:"last_name"`
	Telefono      string     `json:"telefono,omitempty"`
	Rol           string     `json:"rol"`
	Estado        string     `json:"estado"`
	Superusuario  bool       `json:"is_superuser"`
	MFAHabilitado bool       `json:"mfa_habilitado"`
	UltimoAcceso  *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UserListResponse página de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageMeta       `json:"page"`
}

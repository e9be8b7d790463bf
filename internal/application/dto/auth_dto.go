package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResponse token + usuario. MustChangePassword indica primer acceso
// forzado: el cliente debe llevar al cambio de contraseña con código.
type LoginResponse struct {
	Token              string       `json:"token"`
	User               UserResponse `json:"user"`
	MustChangePassword bool         `json:"must_change_password"`
}

// ChangePasswordRequest cambio de contraseña autenticado. InviteCode es
// obligatorio solo en el primer acceso forzado.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password"`
	NewPassword string `json:"new_password" form:"new_password"`
	InviteCode  string `json:"invite_code" form:"invite_code"`
}

// PasswordResetRequest solicitud de restablecimiento por email.
type PasswordResetRequest struct {
	Email string `json:"email" form:"email"`
}

// PasswordResetConfirm canje del token por una contraseña nueva.
type PasswordResetConfirm struct {
	Token       string `json:"token" form:"token"`
	NewPassword string `json:"new_password" form:"new_password"`
}

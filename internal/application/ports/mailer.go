package ports

import "context"

// Mailer puerto de correo saliente. El despacho de la invitación es parte de
// la operación de alta: si falla, el mutador falla y la transacción se revierte.
type Mailer interface {
	// SendInvite envía las credenciales temporales y el código de verificación
	// de un usuario recién creado por un administrador.
	SendInvite(ctx context.Context, to, fullName, username, tempPassword, inviteCode string) error
	// SendPasswordReset envía el enlace/token de restablecimiento.
	SendPasswordReset(ctx context.Context, to, fullName, token string) error
}

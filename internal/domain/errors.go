package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrSelfAction        = errors.New("no puedes realizar esta acción sobre tu propia cuenta")
	ErrProtectedUser     = errors.New("no puedes modificar a un administrador o superusuario")
	ErrInactiveUser      = errors.New("tu usuario está desactivado, contacta al administrador")
	ErrInvalidInviteCode = errors.New("el código de verificación no es válido")
	ErrMailDispatch      = errors.New("no se pudo enviar el correo")
)

// ValidationError acumula errores por campo. Los mutadores validan todo antes
// de escribir y devuelven los errores juntos, no solo el primero.
type ValidationError map[string]string

// Error implementa error.
func (v ValidationError) Error() string {
	for field, msg := range v {
		return field + ": " + msg
	}
	return "entrada inválida"
}

// Add registra el error de un campo. El primer mensaje de cada campo gana.
func (v ValidationError) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// AsValidation extrae un ValidationError de err, si lo es.
func AsValidation(err error) (ValidationError, bool) {
	var v ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

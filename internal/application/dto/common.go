package dto

// ErrorResponse cuerpo de error HTTP. Errors trae los mensajes por campo de
// una validación fallida; se devuelven todos juntos, no solo el primero.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MutationResponse respuesta de los mutadores AJAX.
type MutationResponse struct {
	OK      bool   `json:"ok"`
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

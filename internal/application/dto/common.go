package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields trae los errores por campo cuando el fallo es de validación.
	Fields map[string]string `json:"fields,omitempty"`
}

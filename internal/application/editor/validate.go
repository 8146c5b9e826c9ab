package editor

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError agrupa los errores de campo de un envío. Es un fallo local:
// mientras exista, el guardado no emite ninguna llamada de red y el usuario
// corrige y reenvía.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if len(v.FieldErrors) == 0 {
		return "formulario inválido"
	}
	keys := make([]string, 0, len(v.FieldErrors))
	for k := range v.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("formulario inválido: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", k, v.FieldErrors[k])
	}
	return b.String()
}

// Validate revisa el formulario completo sin tocar la red. Devuelve nil si
// todo está bien. La descripción es opcional; la fecha es obligatoria; cada
// fila exige producto y cantidad positiva.
func (e *Editor) Validate() *ValidationError {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked()
}

func (e *Editor) validateLocked() *ValidationError {
	fields := make(map[string]string)
	if e.date.IsZero() {
		fields["date"] = "la fecha es obligatoria"
	}
	for i, row := range e.rows {
		if strings.TrimSpace(row.ProductName) == "" {
			fields[fmt.Sprintf("details[%d].productName", i)] = "seleccione un producto"
		}
		if row.Quantity <= 0 {
			fields[fmt.Sprintf("details[%d].quantity", i)] = "la cantidad debe ser mayor que cero"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{FieldErrors: fields}
}

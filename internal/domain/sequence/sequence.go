// Package sequence calcula números corridos legibles para cabeceras de
// movimiento ("SI001", "SO042"). La versión cliente (Next) es solo una
// sugerencia sobre una colección ya cargada; el valor autoritativo lo asigna
// la capa de persistencia al crear la cabecera y reemplaza cualquier sugerencia.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

// digitsOnly conserva únicamente los dígitos de un número corrido.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Next calcula el siguiente número corrido a partir de los existentes:
// toma el máximo sufijo numérico, suma uno y rellena con ceros a 3 dígitos.
// Entradas malformadas (sin dígitos, no parseables) se ignoran; nunca falla.
// Sin registros devuelve "<prefix>001".
func Next(prefix string, existing []string) string {
	max := 0
	for _, running := range existing {
		raw := digitsOnly(running)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			// sufijos absurdamente largos desbordan Atoi; se tratan como malformados
			continue
		}
		if parsed > max {
			max = parsed
		}
	}
	return Format(prefix, max+1)
}

// NextAfter calcula el siguiente número corrido a partir del último asignado
// (variante servidor: solo mira el registro más reciente).
func NextAfter(prefix, last string) string {
	if last == "" {
		return Format(prefix, 1)
	}
	raw := digitsOnly(last)
	if raw == "" {
		return Format(prefix, 1)
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return Format(prefix, 1)
	}
	return Format(prefix, parsed+1)
}

// Format arma el número corrido con sufijo de al menos 3 dígitos.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

package ledger

import (
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{"Type", "Running number", "Date", "Product", "SKU", "Quantity", "Created by"}

// ExportCSV vuelca el snapshot filtrado como texto delimitado: una fila de
// encabezado y una por entrada. Los campos con coma, comilla o salto de línea
// van entre comillas, con las comillas internas duplicadas.
func (v *View) ExportCSV() string {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)
	for _, e := range v.Filtered() {
		writeCSVRow(&b, []string{
			e.KindLabel(),
			e.RunningNumber,
			e.Date.UTC().Format(time.RFC3339),
			e.ProductName,
			e.SKU,
			strconv.Itoa(e.Quantity),
			e.CreatorLabel(),
		})
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(f))
	}
	b.WriteByte('\n')
}

func escapeCSV(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Package pdf implementa la exportación del libro de movimientos a PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del tenant  │  "Libro de movimientos" + Fecha│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tipo | N° | Fecha | Producto | SKU | Cant | Creador  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: entradas / salidas / total de registros            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stockmov-api/internal/application/movement"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LedgerPDFGenerator genera el libro de movimientos en PDF usando Maroto v2.
type LedgerPDFGenerator struct{}

// NewLedgerPDFGenerator construye el generador.
func NewLedgerPDFGenerator() *LedgerPDFGenerator { return &LedgerPDFGenerator{} }

// GenerateLedgerPDF genera el PDF del libro y devuelve sus bytes.
func (g *LedgerPDFGenerator) GenerateLedgerPDF(
	_ context.Context,
	tenantName string,
	entries []movement.LedgerEntry,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Libro de movimientos", true).
		WithAuthor(tenantName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tenantName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableEntryRows(entries) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(summaryRow(entries))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del tenant (izq) y título + fecha de generación (der).
func headerRow(tenantName string) core.Row {
	fecha := time.Now().Format("02/01/2006")
	return row.New(16).Add(
		col.New(7).Add(
			text.New(tenantName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("LIBRO DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del libro.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tipo", 1, align.Left),
		h("N°", 1, align.Left),
		h("Fecha", 2, align.Left),
		h("Producto", 4, align.Left),
		h("SKU", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Creado por", 1, align.Left),
	)
}

// tableEntryRows: una fila por entrada del libro.
func tableEntryRows(entries []movement.LedgerEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(
				e.KindLabel(),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				e.RunningNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				e.Date.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				e.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				e.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", e.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				e.CreatorLabel(),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// summaryRow: totales de unidades entradas y salidas del snapshot exportado.
func summaryRow(entries []movement.LedgerEntry) core.Row {
	var inQty, outQty int
	for _, e := range entries {
		if e.Kind == "OUT" {
			outQty += e.Quantity
		} else {
			inQty += e.Quantity
		}
	}
	resumen := fmt.Sprintf("Registros: %d   |   Unidades entradas: %d   |   Unidades salidas: %d",
		len(entries), inQty, outQty)
	return row.New(10).Add(
		col.New(12).Add(
			text.New(resumen, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 3, Right: 1,
			}),
		),
	)
}

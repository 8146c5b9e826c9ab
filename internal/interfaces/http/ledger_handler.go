package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmov-api/internal/application/dto"
	"github.com/jhoicas/stockmov-api/internal/application/ledger"
	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
	"github.com/jhoicas/stockmov-api/internal/infrastructure/pdf"
)

const ledgerDateLayout = "2006-01-02"

// LedgerHandler expone el libro de movimientos: consulta filtrada y
// exportaciones CSV y PDF. Cada petición arma su propia vista sobre el
// Gateway y le aplica los filtros de la query.
type LedgerHandler struct {
	gw         movement.Gateway
	tenantRepo repository.TenantRepository
	pdfGen     *pdf.LedgerPDFGenerator
}

// NewLedgerHandler construye el handler del libro.
func NewLedgerHandler(gw movement.Gateway, tenantRepo repository.TenantRepository, pdfGen *pdf.LedgerPDFGenerator) *LedgerHandler {
	return &LedgerHandler{gw: gw, tenantRepo: tenantRepo, pdfGen: pdfGen}
}

// buildView arma la vista del libro con los filtros de la query:
// product (substring), creator (id exacto, "all" desactiva), days (preset de
// días hacia atrás) o start/end (rango explícito, formato 2006-01-02).
func (h *LedgerHandler) buildView(c *fiber.Ctx) (*ledger.View, error) {
	view := ledger.NewView(h.gw, GetTenantID(c), nil)
	if err := view.Load(c.Context()); err != nil {
		return nil, err
	}
	view.SetProductFilter(c.Query("product"))
	if creator := c.Query("creator"); creator != "" {
		view.SetCreator(creator)
	}
	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		view.SetTrailingDays(days)
	}
	if start, err := time.Parse(ledgerDateLayout, c.Query("start")); err == nil {
		view.SetStartDate(start)
	}
	if end, err := time.Parse(ledgerDateLayout, c.Query("end")); err == nil {
		view.SetEndDate(end)
	}
	return view, nil
}

// List godoc
// @Summary      Libro de movimientos filtrado
// @Tags         ledger
// @Produce      json
// @Param        product  query  string  false  "substring del nombre de producto"
// @Param        creator  query  string  false  "id del creador, all desactiva"
// @Param        days     query  int     false  "preset de N días hacia atrás"
// @Param        start    query  string  false  "cota inferior 2006-01-02"
// @Param        end      query  string  false  "cota superior 2006-01-02"
// @Success      200  {array}  movement.LedgerEntry
// @Router       /api/ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		return respondError(c, err)
	}
	entries := view.Filtered()
	if entries == nil {
		entries = []movement.LedgerEntry{}
	}
	return c.JSON(entries)
}

// ExportCSV godoc
// @Summary      Exportar el libro filtrado como CSV
// @Tags         ledger
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/ledger/export.csv [get]
func (h *LedgerHandler) ExportCSV(c *fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-ledger.csv"`)
	return c.SendString(view.ExportCSV())
}

// ExportPDF godoc
// @Summary      Exportar el libro filtrado como PDF
// @Tags         ledger
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/ledger/export.pdf [get]
func (h *LedgerHandler) ExportPDF(c *fiber.Ctx) error {
	view, err := h.buildView(c)
	if err != nil {
		return respondError(c, err)
	}
	tenantName := "Stock ledger"
	if tenant, err := h.tenantRepo.GetByID(c.Context(), GetTenantID(c)); err == nil && tenant != nil {
		tenantName = tenant.Name
	}
	doc, err := h.pdfGen.GenerateLedgerPDF(c.Context(), tenantName, view.Filtered())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: "no se pudo generar el PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-ledger.pdf"`)
	return c.Send(doc)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmov-api/internal/application/auth"
	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
	"github.com/jhoicas/stockmov-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	MovementGW movement.Gateway
	TenantRepo repository.TenantRepository
	LedgerPDF  *pdf.LedgerPDFGenerator
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con tenant)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Movimientos: cabeceras por kind (in | out)
	movementHandler := NewMovementHandler(deps.MovementGW)
	movements := protected.Group("/movements/:kind")
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)
	movements.Get("/next-number", movementHandler.NextNumber)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)
	movements.Post("/:id/finalize", movementHandler.Finalize)
	movements.Get("/:id/lines", movementHandler.ListLines)
	movements.Post("/:id/lines", movementHandler.CreateLine)

	// Líneas direccionadas por su propio ID
	lines := protected.Group("/movement-lines")
	lines.Put("/:id", movementHandler.UpdateLine)
	lines.Delete("/:id", movementHandler.DeleteLine)

	// Catálogo en solo lectura
	catalogHandler := NewCatalogHandler(deps.MovementGW)
	protected.Get("/products", catalogHandler.ListProducts)
	protected.Get("/products/:id/skus", catalogHandler.ListSkus)

	// Libro de movimientos y exportaciones
	ledgerHandler := NewLedgerHandler(deps.MovementGW, deps.TenantRepo, deps.LedgerPDF)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Get("/", ledgerHandler.List)
	ledgerGroup.Get("/export.csv", ledgerHandler.ExportCSV)
	ledgerGroup.Get("/export.pdf", ledgerHandler.ExportPDF)
}

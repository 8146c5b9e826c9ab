package entity

import "time"

// Product representa un producto del catálogo (colaborador de solo lectura
// para el editor de movimientos; su CRUD vive en otra pantalla).
type Product struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	ImageURL    string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductSku representa una variante (SKU) de un producto. QuantityAvailable
// se ajusta al guardar líneas de entrada y al finalizar salidas; el editor
// nunca lo escribe directamente.
type ProductSku struct {
	ID                string
	TenantID          string
	ProductID         string
	Code              string
	Colour            string
	Size              string
	QuantityAvailable int
	ImageURL          string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

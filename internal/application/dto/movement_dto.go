package dto

import "time"

// HeaderRequest entrada para crear o actualizar una cabecera de movimiento.
type HeaderRequest struct {
	Description string    `json:"description" validate:"omitempty,max=500"`
	Date        time.Time `json:"date" validate:"required"`
}

// HeaderResponse salida de una cabecera.
type HeaderResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	RunningNumber string    `json:"running_number"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	CreatedBy     string    `json:"created_by"`
	Finalized     bool      `json:"finalized"`
	Status        string    `json:"status"` // draft | finalized
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LineRequest entrada para crear o actualizar una línea.
type LineRequest struct {
	ProductName string `json:"product_name" validate:"required,max=200"`
	SKU         string `json:"sku" validate:"omitempty,max=100"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

// LineResponse salida de una línea.
type LineResponse struct {
	ID          string `json:"id"`
	HeaderID    string `json:"header_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
}

// NextNumberResponse salida del siguiente número corrido autoritativo.
type NextNumberResponse struct {
	RunningNumber string `json:"running_number"`
}

package entity

import "time"

// Tenant representa una organización del sistema. Toda cabecera, línea,
// producto y usuario pertenece exactamente a un tenant.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

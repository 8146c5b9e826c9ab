package entity

import "time"

// User representa un usuario del sistema (pertenece a un Tenant).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package entity

import "time"

// Kinds de movimiento de stock. El prefijo se usa en el número corrido ("SI001"/"SO001").
const (
	MovementKindIN  = "IN"  // entrada de stock
	MovementKindOUT = "OUT" // salida de stock
)

// RunningPrefix devuelve el prefijo del número corrido para un kind ("SI" o "SO").
func RunningPrefix(kind string) string {
	if kind == MovementKindOUT {
		return "SO"
	}
	return "SI"
}

// MovementHeader representa la cabecera de una transacción de movimiento de stock
// (entrada o salida). Nace como borrador y pasa una única vez, de forma
// irreversible, a Finalized; desde ese momento ni la cabecera ni sus líneas
// admiten cambios.
type MovementHeader struct {
	ID            string // "" hasta que persiste; el servidor asigna el UUID
	TenantID      string
	Kind          string // IN | OUT
	RunningNumber string // único por (tenant, kind), sufijo numérico monótono
	Description   string
	Date          time.Time
	CreatedBy     string // UserID
	Finalized     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MovementLine representa una línea (producto/SKU/cantidad) de una cabecera.
// La identidad durante la edición es la posición en el arreglo; una vez
// persistida, la identidad es el ID asignado por el servidor.
type MovementLine struct {
	ID          string // "" = nunca guardada; no vacío = registro existente a actualizar
	HeaderID    string
	ProductName string
	SKU         string // opcional
	Quantity    int    // siempre > 0
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusToken devuelve el token de estado sintetizado para búsqueda en listados.
func (h *MovementHeader) StatusToken() string {
	if h.Finalized {
		return "finalized"
	}
	return "draft"
}

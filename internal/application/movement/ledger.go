package movement

import "time"

// LedgerEntry es una línea del libro de movimientos: la fusión cronológica de
// entradas y salidas de un tenant, ya etiquetada con su kind de origen y con
// la atribución del creador resuelta.
type LedgerEntry struct {
	Kind          string    `json:"kind"` // IN | OUT
	RunningNumber string    `json:"running_number"`
	Date          time.Time `json:"date"`
	ProductName   string    `json:"product_name"`
	SKU           string    `json:"sku"`
	Quantity      int       `json:"quantity"`
	CreatedByID   string    `json:"created_by_id"`
	CreatedByName string    `json:"created_by_name"`
}

// KindLabel devuelve la etiqueta legible del kind para exportaciones.
func (e LedgerEntry) KindLabel() string {
	if e.Kind == "OUT" {
		return "Stock out"
	}
	return "Stock in"
}

// CreatorLabel devuelve el nombre del creador, o su id si no se pudo resolver.
func (e LedgerEntry) CreatorLabel() string {
	if e.CreatedByName != "" {
		return e.CreatedByName
	}
	return e.CreatedByID
}

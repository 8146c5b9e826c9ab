// Package ledger implementa la vista del libro de movimientos: la historia
// fusionada de entradas y salidas de un tenant con filtros componibles del
// lado del cliente y exportación tabular.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stockmov-api/internal/application/movement"
)

// CreatorAll desactiva el filtro por creador.
const CreatorAll = "all"

// PresetCustom marca que el rango de fechas se edita a mano; ningún preset
// lo sobrescribe.
const PresetCustom = 0

// Creator es una opción del selector de creadores.
type Creator struct {
	ID   string
	Name string
}

// View es la sesión del libro de movimientos. Carga las entradas ya
// fusionadas por el servidor y aplica los filtros en memoria, sobre el
// snapshot, con semántica AND entre todos.
type View struct {
	gw       movement.Gateway
	tenantID string
	now      func() time.Time

	entries []movement.LedgerEntry

	productTerm string
	creatorID   string
	startDate   time.Time // cero = sin cota inferior
	endDate     time.Time // cero = sin cota superior
	// preset es el número de días hacia atrás del preset activo, o
	// PresetCustom cuando el rango se edita a mano.
	preset int
}

// NewView construye la vista. now permite fijar el reloj en tests; nil usa
// time.Now.
func NewView(gw movement.Gateway, tenantID string, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{
		gw:        gw,
		tenantID:  tenantID,
		now:       now,
		creatorID: CreatorAll,
	}
}

// Load trae el libro completo del tenant.
func (v *View) Load(ctx context.Context) error {
	entries, err := v.gw.ListLedger(ctx, v.tenantID)
	if err != nil {
		return err
	}
	v.entries = entries
	return nil
}

// SetProductFilter filtra por substring del nombre de producto, sin
// distinguir mayúsculas. Vacío desactiva.
func (v *View) SetProductFilter(term string) {
	v.productTerm = term
}

// SetCreator filtra por id exacto de creador. CreatorAll desactiva.
func (v *View) SetCreator(id string) {
	if id == "" {
		id = CreatorAll
	}
	v.creatorID = id
}

// SetTrailingDays activa el preset de N días hacia atrás, hoy incluido, y
// sobrescribe cualquier rango explícito.
func (v *View) SetTrailingDays(n int) {
	if n <= 0 {
		v.preset = PresetCustom
		return
	}
	today := dateOnly(v.now())
	v.preset = n
	v.startDate = today.AddDate(0, 0, -(n - 1))
	v.endDate = today
}

// SetStartDate fija la cota inferior a mano. Tocar cualquiera de las dos
// cotas desactiva el preset: desde ahí el rango es "custom" y cada cota se
// edita por separado.
func (v *View) SetStartDate(d time.Time) {
	v.preset = PresetCustom
	v.startDate = dateOnly(d)
}

// SetEndDate fija la cota superior a mano; igual que SetStartDate, rompe el
// preset activo.
func (v *View) SetEndDate(d time.Time) {
	v.preset = PresetCustom
	v.endDate = dateOnly(d)
}

// Preset devuelve los días del preset activo, o PresetCustom.
func (v *View) Preset() int { return v.preset }

// StartDate devuelve la cota inferior vigente (cero = sin cota).
func (v *View) StartDate() time.Time { return v.startDate }

// EndDate devuelve la cota superior vigente (cero = sin cota).
func (v *View) EndDate() time.Time { return v.endDate }

// Filtered devuelve las entradas que pasan todos los filtros activos.
func (v *View) Filtered() []movement.LedgerEntry {
	needle := strings.ToLower(v.productTerm)
	var out []movement.LedgerEntry
	for _, e := range v.entries {
		if needle != "" && !strings.Contains(strings.ToLower(e.ProductName), needle) {
			continue
		}
		if v.creatorID != CreatorAll && e.CreatedByID != v.creatorID {
			continue
		}
		d := dateOnly(e.Date)
		if !v.startDate.IsZero() && d.Before(v.startDate) {
			continue
		}
		if !v.endDate.IsZero() && d.After(v.endDate) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Creators devuelve los creadores distintos presentes en el libro, ordenados
// por nombre, para poblar el selector.
func (v *View) Creators() []Creator {
	seen := make(map[string]Creator)
	for _, e := range v.entries {
		if e.CreatedByID == "" {
			continue
		}
		if _, ok := seen[e.CreatedByID]; !ok {
			seen[e.CreatedByID] = Creator{ID: e.CreatedByID, Name: e.CreatorLabel()}
		}
	}
	out := make([]Creator, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// dateOnly trunca a la fecha calendario, conservando la zona.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Package editor implementa la sesión de edición de una transacción de
// movimiento de stock: el ciclo borrador -> finalizado de una cabecera y la
// reconciliación incremental de sus líneas contra lo persistido. Un Editor
// sirve a una sola sesión y un solo kind; entradas y salidas comparten esta
// misma implementación parametrizada.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// Estados de la sesión de edición.
const (
	StateNew       = "NEW"       // sin cabecera persistida, una fila en blanco
	StateLoading   = "LOADING"   // cargando una cabecera existente
	StateEditable  = "EDITABLE"  // cabecera viva, líneas mutables
	StateFinalized = "FINALIZED" // terminal, todo de solo lectura
)

const defaultOpTimeout = 10 * time.Second

var (
	// ErrSaveInFlight se devuelve al rechazar un guardado mientras otro sigue
	// en curso. El segundo intento no se encola: el usuario reintenta.
	ErrSaveInFlight = errors.New("hay un guardado en curso")
	// ErrNotPersisted se devuelve al intentar finalizar sin haber guardado.
	ErrNotPersisted = errors.New("la transacción aún no ha sido guardada")
	// ErrLastRow se devuelve al intentar quitar la única fila de un borrador
	// que todavía no tiene cabecera persistida.
	ErrLastRow = errors.New("un borrador nuevo debe conservar al menos una fila")
	// ErrMissingTenant se devuelve al construir un editor sin tenant.
	ErrMissingTenant = errors.New("la sesión de edición requiere un tenant")
)

// Config fija la identidad de la sesión al construir el editor. Nada de esto
// se lee de estado ambiental: sin tenant no hay editor.
type Config struct {
	TenantID string
	UserID   string
	Kind     string // entity.MovementKindIN | entity.MovementKindOUT
	// SuggestedRunningNumber es la sugerencia calculada por el listado; se
	// muestra mientras el borrador no persiste y se descarta en el primer
	// guardado exitoso a favor del número asignado por el servidor.
	SuggestedRunningNumber string
	// OpTimeout acota cada llamada al gateway. Cero usa el valor por defecto.
	OpTimeout time.Duration
	// OnSaved, si no es nil, se invoca tras cada guardado exitoso ya con el
	// estado canónico recargado.
	OnSaved func()
}

// Row es una fila del formulario. Mientras edita, la identidad es la posición
// en el arreglo; una vez persistida, la identidad es el ID.
type Row struct {
	ID          string // "" = nunca guardada
	ProductID   string // "" = sin re-vincular al catálogo
	ProductName string
	SKU         string
	Quantity    int
	// SearchTerm filtra el catálogo de productos solo para esta fila.
	SearchTerm string
}

// LineResult es el desenlace de una fila dentro de un guardado: o el ID
// persistido o el error que la dejó atrás. Una fila fallida conserva su
// estado de ID anterior y el siguiente guardado la recoge.
type LineResult struct {
	Index int
	ID    string
	Err   error
}

// SaveResult resume un guardado: la identidad autoritativa de la cabecera y
// el desenlace fila a fila.
type SaveResult struct {
	HeaderID      string
	RunningNumber string
	Lines         []LineResult
}

// Failed devuelve true si alguna fila no pudo persistirse.
func (r *SaveResult) Failed() bool {
	for _, l := range r.Lines {
		if l.Err != nil {
			return true
		}
	}
	return false
}

// Editor mantiene el estado del formulario de una transacción y lo reconcilia
// contra el Gateway en cada guardado.
type Editor struct {
	gw  movement.Gateway
	cfg Config

	mu     sync.Mutex
	state  string
	saving bool

	headerID      string
	runningNumber string
	description   string
	date          time.Time
	rows          []Row

	catalog *catalog
}

// New construye una sesión de edición vacía (estado NEW, una fila en blanco).
func New(gw movement.Gateway, cfg Config) (*Editor, error) {
	if cfg.TenantID == "" {
		return nil, ErrMissingTenant
	}
	if cfg.Kind != entity.MovementKindIN && cfg.Kind != entity.MovementKindOUT {
		return nil, errors.New("kind de movimiento desconocido: " + cfg.Kind)
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaultOpTimeout
	}
	return &Editor{
		gw:            gw,
		cfg:           cfg,
		state:         StateNew,
		runningNumber: cfg.SuggestedRunningNumber,
		rows:          []Row{{}},
		catalog:       newCatalog(gw, cfg.TenantID),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lectura de estado
// ─────────────────────────────────────────────────────────────────────────────

func (e *Editor) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) HeaderID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.headerID
}

// RunningNumber devuelve la sugerencia del cliente hasta el primer guardado y
// el número asignado por el servidor después.
func (e *Editor) RunningNumber() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runningNumber
}

func (e *Editor) Description() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.description
}

func (e *Editor) Date() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.date
}

// Rows devuelve una copia de las filas; mutar el resultado no toca la sesión.
func (e *Editor) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutaciones locales del formulario
// ─────────────────────────────────────────────────────────────────────────────

func (e *Editor) SetDescription(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	e.description = s
	return nil
}

func (e *Editor) SetDate(d time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	e.date = d
	return nil
}

func (e *Editor) SetRowQuantity(i, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	if i < 0 || i >= len(e.rows) {
		return domain.ErrNotFound
	}
	e.rows[i].Quantity = qty
	return nil
}

// SetRowProductName escribe el nombre del producto a mano, sin pasar por el
// catálogo; el vínculo con ProductID se pierde hasta la próxima selección.
func (e *Editor) SetRowProductName(i int, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	if i < 0 || i >= len(e.rows) {
		return domain.ErrNotFound
	}
	e.rows[i].ProductName = name
	e.rows[i].ProductID = ""
	return nil
}

func (e *Editor) SetRowSKU(i int, sku string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	if i < 0 || i >= len(e.rows) {
		return domain.ErrNotFound
	}
	e.rows[i].SKU = sku
	return nil
}

// SetRowSearch fija el término de búsqueda de catálogo de una sola fila.
func (e *Editor) SetRowSearch(i int, term string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.rows) {
		return domain.ErrNotFound
	}
	e.rows[i].SearchTerm = term
	return nil
}

// AddRow agrega una fila en blanco al final.
func (e *Editor) AddRow() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	e.rows = append(e.rows, Row{})
	return nil
}

// RemoveRow quita una fila. Una fila ya persistida se borra primero en el
// servidor para que no resucite en la próxima recarga; una fila nunca
// guardada se quita sin tocar la red. Con la cabecera finalizada no se emite
// ninguna llamada. Mientras la cabecera no exista, la última fila no se quita.
func (e *Editor) RemoveRow(ctx context.Context, i int) error {
	e.mu.Lock()
	if e.state == StateFinalized {
		e.mu.Unlock()
		return domain.ErrFinalized
	}
	if i < 0 || i >= len(e.rows) {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	if e.headerID == "" && len(e.rows) == 1 {
		e.mu.Unlock()
		return ErrLastRow
	}
	lineID := e.rows[i].ID
	e.mu.Unlock()

	if lineID != "" {
		opCtx, cancel := e.opContext(ctx)
		err := e.gw.DeleteLine(opCtx, lineID)
		cancel()
		if err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= len(e.rows) || e.rows[i].ID != lineID {
		// la sesión cambió mientras se borraba en el servidor; no hay fila que quitar
		return nil
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Carga
// ─────────────────────────────────────────────────────────────────────────────

// Load carga una cabecera existente con sus líneas y re-vincula cada línea al
// catálogo por nombre exacto de producto (el primer nombre que coincide gana;
// una línea sin coincidencia queda sin ProductID y el usuario la reselecciona).
// Sin líneas persistidas, siembra una fila en blanco.
func (e *Editor) Load(ctx context.Context, headerID string) error {
	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	opCtx, cancel := e.opContext(ctx)
	header, err := e.gw.GetHeader(opCtx, headerID)
	cancel()
	if err != nil {
		e.setState(StateNew)
		return err
	}

	opCtx, cancel = e.opContext(ctx)
	lines, err := e.gw.ListLines(opCtx, headerID)
	cancel()
	if err != nil {
		e.setState(StateNew)
		return err
	}

	// el catálogo debe estar cargado antes de mapear nombres a productos
	opCtx, cancel = e.opContext(ctx)
	err = e.catalog.ensureProducts(opCtx)
	cancel()
	if err != nil {
		e.setState(StateNew)
		return err
	}

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		row := Row{
			ID:          line.ID,
			ProductName: line.ProductName,
			SKU:         line.SKU,
			Quantity:    line.Quantity,
		}
		if p := e.catalog.findByName(line.ProductName); p != nil {
			row.ProductID = p.ID
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = []Row{{}}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.headerID = header.ID
	e.runningNumber = header.RunningNumber
	e.description = header.Description
	e.date = header.Date
	e.rows = rows
	if header.Finalized {
		e.state = StateFinalized
	} else {
		e.state = StateEditable
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Guardado y finalización
// ─────────────────────────────────────────────────────────────────────────────

// Save reconcilia el formulario contra lo persistido: valida sin tocar la
// red, hace upsert de la cabecera, recorre las filas en orden emitiendo
// create (ID vacío) o update (ID presente) una a una, escribe los IDs
// devueltos en la fila de origen por su posición, y recarga el estado
// canónico. Una fila fallida no corta el recorrido: conserva su ID previo y
// queda reportada en el resultado.
func (e *Editor) Save(ctx context.Context) (*SaveResult, error) {
	e.mu.Lock()
	if e.state == StateFinalized {
		e.mu.Unlock()
		return nil, domain.ErrFinalized
	}
	if e.saving {
		e.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	if verr := e.validateLocked(); verr != nil {
		e.mu.Unlock()
		return nil, verr
	}
	e.saving = true
	headerID := e.headerID
	in := movement.HeaderInput{
		Description: e.description,
		Date:        e.date,
		CreatedBy:   e.cfg.UserID,
	}
	rows := make([]Row, len(e.rows))
	copy(rows, e.rows)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.saving = false
		e.mu.Unlock()
	}()

	// 1. upsert de cabecera; su éxito precede a cualquier línea
	var header *entity.MovementHeader
	var err error
	opCtx, cancel := e.opContext(ctx)
	if headerID == "" {
		header, err = e.gw.CreateHeader(opCtx, e.cfg.TenantID, e.cfg.Kind, in)
	} else {
		header, err = e.gw.UpdateHeader(opCtx, headerID, in)
	}
	cancel()
	if err != nil {
		return nil, err
	}

	result := &SaveResult{HeaderID: header.ID, RunningNumber: header.RunningNumber}

	// 2. líneas, estrictamente en orden de fila; cada una termina antes de
	// empezar la siguiente para que la atribución de errores sea inequívoca
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		lineIn := movement.LineInput{
			ProductName: row.ProductName,
			SKU:         row.SKU,
			Quantity:    row.Quantity,
		}
		lr := LineResult{Index: i, ID: row.ID}
		opCtx, cancel := e.opContext(ctx)
		if row.ID == "" {
			var created *entity.MovementLine
			created, lr.Err = e.gw.CreateLine(opCtx, header.ID, lineIn)
			if lr.Err == nil {
				lr.ID = created.ID
			}
		} else {
			_, lr.Err = e.gw.UpdateLine(opCtx, row.ID, lineIn)
		}
		cancel()
		result.Lines = append(result.Lines, lr)
	}

	// 3. escribir los IDs nuevos en su fila de origen por posición
	e.mu.Lock()
	e.headerID = header.ID
	e.runningNumber = header.RunningNumber
	for _, lr := range result.Lines {
		if lr.Err == nil && lr.Index < len(e.rows) {
			e.rows[lr.Index].ID = lr.ID
		}
	}
	e.mu.Unlock()

	// 4. recargar el estado canónico; la vista nunca se queda con lo local
	if err := e.reload(ctx, header.ID); err != nil {
		return result, err
	}
	if e.cfg.OnSaved != nil {
		e.cfg.OnSaved()
	}
	return result, nil
}

// Finalize cierra la transacción de forma irreversible. Requiere una cabecera
// ya persistida y se rechaza localmente si la sesión ya está finalizada.
func (e *Editor) Finalize(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateFinalized {
		e.mu.Unlock()
		return domain.ErrFinalized
	}
	if e.headerID == "" {
		e.mu.Unlock()
		return ErrNotPersisted
	}
	if e.saving {
		e.mu.Unlock()
		return ErrSaveInFlight
	}
	e.saving = true
	headerID := e.headerID
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.saving = false
		e.mu.Unlock()
	}()

	opCtx, cancel := e.opContext(ctx)
	header, err := e.gw.FinalizeHeader(opCtx, headerID)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrFinalized) {
			// el servidor ya la había cerrado; la sesión se re-sincroniza
			e.setState(StateFinalized)
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.runningNumber = header.RunningNumber
	e.state = StateFinalized
	return nil
}

// reload trae cabecera y líneas del servidor y reemplaza el formulario.
func (e *Editor) reload(ctx context.Context, headerID string) error {
	opCtx, cancel := e.opContext(ctx)
	header, err := e.gw.GetHeader(opCtx, headerID)
	cancel()
	if err != nil {
		return err
	}
	opCtx, cancel = e.opContext(ctx)
	lines, err := e.gw.ListLines(opCtx, headerID)
	cancel()
	if err != nil {
		return err
	}

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		row := Row{
			ID:          line.ID,
			ProductName: line.ProductName,
			SKU:         line.SKU,
			Quantity:    line.Quantity,
		}
		if p := e.catalog.findByName(line.ProductName); p != nil {
			row.ProductID = p.ID
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = []Row{{}}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.headerID = header.ID
	e.runningNumber = header.RunningNumber
	e.description = header.Description
	e.date = header.Date
	e.rows = rows
	if header.Finalized {
		e.state = StateFinalized
	} else {
		e.state = StateEditable
	}
	return nil
}

func (e *Editor) setState(s string) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// opContext acota una llamada al gateway con el timeout de la sesión.
func (e *Editor) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.cfg.OpTimeout)
}

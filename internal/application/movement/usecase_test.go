package movement_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
	"github.com/jhoicas/stockmov-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────────────────────────────────────

type memHeaders struct {
	seq   int
	items []*entity.MovementHeader
}

func (m *memHeaders) Create(_ context.Context, h *entity.MovementHeader) error {
	m.seq++
	h.ID = fmt.Sprintf("hdr-%d", m.seq)
	h.CreatedAt = time.Now()
	cp := *h
	m.items = append(m.items, &cp)
	return nil
}

func (m *memHeaders) GetByID(_ context.Context, id string) (*entity.MovementHeader, error) {
	for _, h := range m.items {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memHeaders) Update(_ context.Context, h *entity.MovementHeader) error {
	for i, it := range m.items {
		if it.ID == h.ID {
			cp := *h
			m.items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memHeaders) ListByTenantAndKind(_ context.Context, tenantID, kind string) ([]*entity.MovementHeader, error) {
	var out []*entity.MovementHeader
	for _, h := range m.items {
		if h.TenantID == tenantID && h.Kind == kind {
			cp := *h
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memHeaders) LastRunningNumber(_ context.Context, tenantID, kind string) (string, error) {
	last := ""
	for _, h := range m.items {
		if h.TenantID == tenantID && h.Kind == kind {
			last = h.RunningNumber
		}
	}
	return last, nil
}

func (m *memHeaders) Delete(_ context.Context, id string) error {
	for i, h := range m.items {
		if h.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memLines struct {
	seq   int
	items []*entity.MovementLine
}

func (m *memLines) Create(_ context.Context, l *entity.MovementLine) error {
	m.seq++
	l.ID = fmt.Sprintf("line-%d", m.seq)
	cp := *l
	m.items = append(m.items, &cp)
	return nil
}

func (m *memLines) GetByID(_ context.Context, id string) (*entity.MovementLine, error) {
	for _, l := range m.items {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memLines) Update(_ context.Context, l *entity.MovementLine) error {
	for i, it := range m.items {
		if it.ID == l.ID {
			cp := *l
			m.items[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memLines) ListByHeader(_ context.Context, headerID string) ([]*entity.MovementLine, error) {
	var out []*entity.MovementLine
	for _, l := range m.items {
		if l.HeaderID == headerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLines) Delete(_ context.Context, id string) error {
	for i, l := range m.items {
		if l.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memProducts struct{ items []*entity.Product }

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) ListByTenant(_ context.Context, tenantID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memSkus struct{ items []*entity.ProductSku }

func (m *memSkus) ListByProduct(_ context.Context, productID string) ([]*entity.ProductSku, error) {
	var out []*entity.ProductSku
	for _, s := range m.items {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSkus) GetByCodeAndTenant(_ context.Context, code, tenantID string) (*entity.ProductSku, error) {
	for _, s := range m.items {
		if s.Code == code && s.TenantID == tenantID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memSkus) UpdateQuantity(_ context.Context, id string, qty int) error {
	for _, s := range m.items {
		if s.ID == id {
			s.QuantityAvailable = qty
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memSkus) available(code string) int {
	for _, s := range m.items {
		if s.Code == code {
			return s.QuantityAvailable
		}
	}
	return -1
}

type memUsers struct{ items []*entity.User }

func (m *memUsers) Create(_ context.Context, u *entity.User) error { m.items = append(m.items, u); return nil }

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m.items {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) ListByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.items {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// memTx ejecuta la función sobre los mismos fakes, sin transaccionalidad real.
type memTx struct {
	headers *memHeaders
	lines   *memLines
	skus    *memSkus
}

func (t *memTx) Run(_ context.Context, fn func(
	repository.MovementHeaderRepository,
	repository.MovementLineRepository,
	repository.ProductSkuRepository,
) error) error {
	return fn(t.headers, t.lines, t.skus)
}

type fixture struct {
	uc      *movement.MovementUseCase
	headers *memHeaders
	lines   *memLines
	skus    *memSkus
	users   *memUsers
}

func newFixture() *fixture {
	headers := &memHeaders{}
	lines := &memLines{}
	products := &memProducts{}
	skus := &memSkus{items: []*entity.ProductSku{
		{ID: "sku-1", TenantID: "t1", ProductID: "p1", Code: "CAM-R-M", QuantityAvailable: 10},
		{ID: "sku-2", TenantID: "t1", ProductID: "p1", Code: "CAM-R-L", QuantityAvailable: 3},
	}}
	users := &memUsers{items: []*entity.User{
		{ID: "u1", TenantID: "t1", Email: "ana@acme.com", Name: "Ana"},
	}}
	tx := &memTx{headers: headers, lines: lines, skus: skus}
	return &fixture{
		uc:      movement.NewMovementUseCase(headers, lines, products, skus, users, tx),
		headers: headers,
		lines:   lines,
		skus:    skus,
		users:   users,
	}
}

func mustHeader(t *testing.T, f *fixture, kind string) *entity.MovementHeader {
	t.Helper()
	h, err := f.uc.CreateHeader(context.Background(), "t1", kind, movement.HeaderInput{
		Description: "prueba",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		CreatedBy:   "u1",
	})
	require.NoError(t, err)
	return h
}

// ─────────────────────────────────────────────────────────────────────────────
// Cabeceras y números corridos
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateHeader_AsignaNumeroCorridoPorKind(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	h1 := mustHeader(t, f, entity.MovementKindIN)
	h2 := mustHeader(t, f, entity.MovementKindIN)
	h3 := mustHeader(t, f, entity.MovementKindOUT)

	assert.Equal(t, "SI001", h1.RunningNumber)
	assert.Equal(t, "SI002", h2.RunningNumber)
	assert.Equal(t, "SO001", h3.RunningNumber, "las secuencias de entrada y salida son independientes")

	next, err := f.uc.NextNumber(ctx, "t1", entity.MovementKindIN)
	require.NoError(t, err)
	assert.Equal(t, "SI003", next)
}

func TestCreateHeader_KindDesconocidoRechazado(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateHeader(context.Background(), "t1", "TRANSFER", movement.HeaderInput{
		Date: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateHeader_FechaObligatoria(t *testing.T) {
	f := newFixture()
	_, err := f.uc.CreateHeader(context.Background(), "t1", entity.MovementKindIN, movement.HeaderInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateHeader_FinalizadaRechazada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	_, err := f.uc.FinalizeHeader(ctx, h.ID)
	require.NoError(t, err)

	_, err = f.uc.UpdateHeader(ctx, h.ID, movement.HeaderInput{Description: "x", Date: time.Now()})
	assert.ErrorIs(t, err, domain.ErrFinalized)
}

func TestDeleteHeader_BorradorEliminaLineasYRevierteDisponibilidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	_, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, f.skus.available("CAM-R-M"))

	require.NoError(t, f.uc.DeleteHeader(ctx, h.ID))

	assert.Empty(t, f.lines.items, "las líneas se eliminan junto con la cabecera")
	assert.Equal(t, 10, f.skus.available("CAM-R-M"), "la disponibilidad vuelve al valor previo")
	_, err = f.uc.GetHeader(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteHeader_FinalizadaRechazada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindOUT)

	_, err := f.uc.FinalizeHeader(ctx, h.ID)
	require.NoError(t, err)

	err = f.uc.DeleteHeader(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrFinalized)
}

// ─────────────────────────────────────────────────────────────────────────────
// Líneas y disponibilidad de SKU
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateLine_EntradaSumaDisponibilidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	line, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, line.ID)
	assert.Equal(t, 17, f.skus.available("CAM-R-M"))
}

func TestCreateLine_SalidaNoTocaDisponibilidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindOUT)

	_, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 7})
	require.NoError(t, err)

	assert.Equal(t, 10, f.skus.available("CAM-R-M"), "las salidas solo descuentan al finalizar")
}

func TestCreateLine_SkuInexistenteSeOmiteSinError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	_, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa vieja", SKU: "YA-NO-EXISTE", Quantity: 2})
	assert.NoError(t, err, "un SKU retirado del catálogo no debe bloquear el guardado")
}

func TestCreateLine_CantidadInvalida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	_, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetLine_ExistenteEInexistente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	created, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", Quantity: 2})
	require.NoError(t, err)

	line, err := f.uc.GetLine(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, line.HeaderID)

	_, err = f.uc.GetLine(ctx, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateLine_EntradaCorrigeDisponibilidadEntreSkus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	line, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, f.skus.available("CAM-R-M"))

	_, err = f.uc.UpdateLine(ctx, line.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-L", Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, 10, f.skus.available("CAM-R-M"), "el SKU anterior recupera su cantidad")
	assert.Equal(t, 5, f.skus.available("CAM-R-L"), "el nuevo SKU recibe la nueva cantidad")
}

func TestDeleteLine_EntradaRevierteDisponibilidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	line, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteLine(ctx, line.ID))
	assert.Equal(t, 10, f.skus.available("CAM-R-M"))
}

func TestLineOps_CabeceraFinalizadaRechazadas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	line, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 1})
	require.NoError(t, err)
	_, err = f.uc.FinalizeHeader(ctx, h.ID)
	require.NoError(t, err)

	_, err = f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Otra", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrFinalized)

	_, err = f.uc.UpdateLine(ctx, line.ID, movement.LineInput{ProductName: "Otra", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrFinalized)

	assert.ErrorIs(t, f.uc.DeleteLine(ctx, line.ID), domain.ErrFinalized)
}

// ─────────────────────────────────────────────────────────────────────────────
// Finalización
// ─────────────────────────────────────────────────────────────────────────────

func TestFinalizeHeader_SalidaDescuentaDisponibilidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindOUT)

	_, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 4})
	require.NoError(t, err)

	got, err := f.uc.FinalizeHeader(ctx, h.ID)
	require.NoError(t, err)

	assert.True(t, got.Finalized)
	assert.Equal(t, 6, f.skus.available("CAM-R-M"))
}

func TestFinalizeHeader_SalidaSinStockSuficiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindOUT)

	_, err := f.uc.CreateLine(ctx, h.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-L", Quantity: 99})
	require.NoError(t, err)

	_, err = f.uc.FinalizeHeader(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	reloaded, err := f.uc.GetHeader(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Finalized, "sin stock suficiente la cabecera sigue en borrador")
	assert.Equal(t, 3, f.skus.available("CAM-R-L"), "no se descuenta nada")
}

func TestFinalizeHeader_SegundaVezRechazada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	h := mustHeader(t, f, entity.MovementKindIN)

	_, err := f.uc.FinalizeHeader(ctx, h.ID)
	require.NoError(t, err)

	_, err = f.uc.FinalizeHeader(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrFinalized)
}

// ─────────────────────────────────────────────────────────────────────────────
// Libro de movimientos
// ─────────────────────────────────────────────────────────────────────────────

func TestListLedger_FusionaKindsYResuelveCreador(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in, err := f.uc.CreateHeader(ctx, "t1", entity.MovementKindIN, movement.HeaderInput{
		Description: "ingreso enero",
		Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		CreatedBy:   "u1",
	})
	require.NoError(t, err)
	out, err := f.uc.CreateHeader(ctx, "t1", entity.MovementKindOUT, movement.HeaderInput{
		Description: "despacho enero",
		Date:        time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		CreatedBy:   "fantasma",
	})
	require.NoError(t, err)

	_, err = f.uc.CreateLine(ctx, in.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 5})
	require.NoError(t, err)
	_, err = f.uc.CreateLine(ctx, out.ID, movement.LineInput{ProductName: "Camisa roja", SKU: "CAM-R-M", Quantity: 2})
	require.NoError(t, err)

	entries, err := f.uc.ListLedger(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "OUT", entries[0].Kind, "orden por fecha descendente")
	assert.Equal(t, "IN", entries[1].Kind)
	assert.Equal(t, "Ana", entries[1].CreatedByName)
	assert.Equal(t, "Ana", entries[1].CreatorLabel())
	assert.Equal(t, "", entries[0].CreatedByName, "creador sin usuario registrado queda sin nombre")
	assert.Equal(t, "fantasma", entries[0].CreatorLabel(), "la etiqueta cae al id cuando no hay nombre")
}

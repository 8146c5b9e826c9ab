package listing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmov-api/internal/application/listing"
	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// listGateway implementa solo lo que la pantalla usa; el resto entra en pánico
// si algo lo llama por accidente.
type listGateway struct {
	movement.Gateway
	headers     []*entity.MovementHeader
	deleteCalls int
	deleteErr   error
}

func (g *listGateway) ListHeaders(_ context.Context, _, _ string) ([]*entity.MovementHeader, error) {
	return g.headers, nil
}

func (g *listGateway) DeleteHeader(_ context.Context, id string) error {
	g.deleteCalls++
	if g.deleteErr != nil {
		return g.deleteErr
	}
	for i, h := range g.headers {
		if h.ID == id {
			g.headers = append(g.headers[:i], g.headers[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func header(id, running, desc string, finalized bool) *entity.MovementHeader {
	return &entity.MovementHeader{
		ID:            id,
		TenantID:      "t1",
		Kind:          entity.MovementKindIN,
		RunningNumber: running,
		Description:   desc,
		Date:          time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Finalized:     finalized,
	}
}

func loadedScreen(t *testing.T, headers ...*entity.MovementHeader) (*listing.Screen, *listGateway) {
	t.Helper()
	gw := &listGateway{headers: headers}
	s := listing.NewScreen(gw, "t1", entity.MovementKindIN)
	require.NoError(t, s.Load(context.Background()))
	return s, gw
}

func TestFiltered_SinBusquedaDevuelveTodo(t *testing.T) {
	s, _ := loadedScreen(t,
		header("h1", "SI001", "ingreso enero", false),
		header("h2", "SI002", "ingreso febrero", true),
	)
	assert.Len(t, s.Filtered(), 2)
}

func TestFiltered_PorNumeroDescripcionYEstado(t *testing.T) {
	s, _ := loadedScreen(t,
		header("h1", "SI001", "ingreso enero", false),
		header("h2", "SI002", "ingreso febrero", true),
	)

	s.SetSearch("si002")
	require.Len(t, s.Filtered(), 1, "número corrido sin distinguir mayúsculas")
	assert.Equal(t, "h2", s.Filtered()[0].ID)

	s.SetSearch("ENERO")
	require.Len(t, s.Filtered(), 1, "descripción sin distinguir mayúsculas")
	assert.Equal(t, "h1", s.Filtered()[0].ID)

	s.SetSearch("finalized")
	require.Len(t, s.Filtered(), 1, "el token de estado sintetizado también se busca")
	assert.Equal(t, "h2", s.Filtered()[0].ID)

	s.SetSearch("draft")
	require.Len(t, s.Filtered(), 1)
	assert.Equal(t, "h1", s.Filtered()[0].ID)
}

func TestOpenCreate_SugiereElSiguienteNumero(t *testing.T) {
	s, _ := loadedScreen(t,
		header("h1", "SI001", "", false),
		header("h2", "SI003", "", false),
	)
	assert.Equal(t, "SI004", s.OpenCreate())
}

func TestOpenCreate_ListadoVacioSugiere001(t *testing.T) {
	s, _ := loadedScreen(t)
	assert.Equal(t, "SI001", s.OpenCreate())
}

func TestOpenEdit_CabeceraDesaparecida(t *testing.T) {
	s, _ := loadedScreen(t, header("h1", "SI001", "", false))

	id, err := s.OpenEdit("h1")
	require.NoError(t, err)
	assert.Equal(t, "h1", id)

	_, err = s.OpenEdit("fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_BorradorEliminaYRecarga(t *testing.T) {
	s, gw := loadedScreen(t,
		header("h1", "SI001", "", false),
		header("h2", "SI002", "", false),
	)

	require.NoError(t, s.Delete(context.Background(), "h1"))

	assert.Equal(t, 1, gw.deleteCalls)
	assert.Len(t, s.Filtered(), 1, "el listado queda recargado tras el borrado")
}

func TestDelete_FinalizadaRechazadaSinLlamada(t *testing.T) {
	s, gw := loadedScreen(t, header("h1", "SI001", "", true))

	err := s.Delete(context.Background(), "h1")

	assert.ErrorIs(t, err, domain.ErrFinalized)
	assert.Zero(t, gw.deleteCalls, "la guarda es local, la llamada nunca se emite")
}

func TestDelete_ErrorDelServidorSePropaga(t *testing.T) {
	s, gw := loadedScreen(t, header("h1", "SI001", "", false))
	gw.deleteErr = fmt.Errorf("se cayó la red")

	err := s.Delete(context.Background(), "h1")
	assert.EqualError(t, err, "se cayó la red")
}

package editor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

func TestSkusForProduct_MemoizaPorSesion(t *testing.T) {
	gw := newFakeGateway()
	e := newEditor(t, gw, entity.MovementKindIN)
	ctx := context.Background()

	first, err := e.SkusForProduct(ctx, "p-b")
	require.NoError(t, err)
	second, err := e.SkusForProduct(ctx, "p-b")
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.calls["ListSkus"], "el segundo acceso sale del caché de la sesión")
}

func TestSkusForProduct_CacheNoCompartidoEntreSesiones(t *testing.T) {
	gw := newFakeGateway()
	ctx := context.Background()

	e1 := newEditor(t, gw, entity.MovementKindIN)
	_, err := e1.SkusForProduct(ctx, "p-b")
	require.NoError(t, err)

	e2 := newEditor(t, gw, entity.MovementKindIN)
	_, err = e2.SkusForProduct(ctx, "p-b")
	require.NoError(t, err)

	assert.Equal(t, 2, gw.calls["ListSkus"], "cada sesión puebla su propio caché")
}

func TestSelectProduct_UnSoloSkuSeAutoselecciona(t *testing.T) {
	gw := newFakeGateway()
	e := newEditor(t, gw, entity.MovementKindIN)
	ctx := context.Background()

	require.NoError(t, e.SelectProduct(ctx, 0, "p-a"))

	row := e.Rows()[0]
	assert.Equal(t, "ProductA", row.ProductName)
	assert.Equal(t, "p-a", row.ProductID)
	assert.Equal(t, "A-1", row.SKU, "con un único SKU, se selecciona solo")
}

func TestSelectProduct_VariosSkusLimpiaElCampo(t *testing.T) {
	gw := newFakeGateway()
	e := newEditor(t, gw, entity.MovementKindIN)
	ctx := context.Background()

	require.NoError(t, e.SetRowSKU(0, "A-1"))
	require.NoError(t, e.SelectProduct(ctx, 0, "p-b"))

	row := e.Rows()[0]
	assert.Equal(t, "ProductB", row.ProductName)
	assert.Empty(t, row.SKU, "cambiar de producto descarta el SKU anterior")
}

func TestFilteredProducts_BusquedaIndependientePorFila(t *testing.T) {
	gw := newFakeGateway()
	e := newEditor(t, gw, entity.MovementKindIN)
	ctx := context.Background()

	require.NoError(t, e.AddRow())
	require.NoError(t, e.SetRowSearch(0, "camisa"))

	row0, err := e.FilteredProducts(ctx, 0)
	require.NoError(t, err)
	row1, err := e.FilteredProducts(ctx, 1)
	require.NoError(t, err)

	require.Len(t, row0, 1, "la búsqueda es substring sin distinguir mayúsculas")
	assert.Equal(t, "Camisa roja", row0[0].Name)
	assert.Len(t, row1, 3, "el término de una fila no afecta a las demás")
}

func TestSelectProduct_FinalizadoRechazado(t *testing.T) {
	gw := newFakeGateway()
	e := newEditor(t, gw, entity.MovementKindIN)
	ctx := context.Background()

	require.NoError(t, e.SetDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	fillRow(t, e, 0, "ProductA", "", 1)
	_, err := e.Save(ctx)
	require.NoError(t, err)
	require.NoError(t, e.Finalize(ctx))

	err = e.SelectProduct(ctx, 0, "p-b")
	assert.Error(t, err)
}

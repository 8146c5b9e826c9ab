package editor

import (
	"context"
	"strings"

	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// catalog es la vista de solo lectura del catálogo para una sesión de
// edición: la lista de productos del tenant y los SKUs memoizados por
// producto. Se puebla en el primer acceso, nunca se invalida y muere con el
// editor; ninguna otra sesión lo comparte.
type catalog struct {
	gw       movement.Gateway
	tenantID string

	products []*entity.Product
	loaded   bool
	skuCache map[string][]*entity.ProductSku
}

func newCatalog(gw movement.Gateway, tenantID string) *catalog {
	return &catalog{
		gw:       gw,
		tenantID: tenantID,
		skuCache: make(map[string][]*entity.ProductSku),
	}
}

func (c *catalog) ensureProducts(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	products, err := c.gw.ListProducts(ctx, c.tenantID)
	if err != nil {
		return err
	}
	c.products = products
	c.loaded = true
	return nil
}

// skusFor devuelve los SKUs de un producto, del caché si ya se pidieron.
func (c *catalog) skusFor(ctx context.Context, productID string) ([]*entity.ProductSku, error) {
	if skus, ok := c.skuCache[productID]; ok {
		return skus, nil
	}
	skus, err := c.gw.ListSkus(ctx, productID)
	if err != nil {
		return nil, err
	}
	c.skuCache[productID] = skus
	return skus, nil
}

// findByName busca un producto por nombre exacto; el primero que coincide
// gana. Dos productos con el mismo nombre en un tenant son indistinguibles
// aquí, limitación conocida del re-vínculo por nombre.
func (c *catalog) findByName(name string) *entity.Product {
	for _, p := range c.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (c *catalog) findByID(id string) *entity.Product {
	for _, p := range c.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// filtered devuelve los productos cuyo nombre contiene el término, sin
// distinguir mayúsculas. Término vacío devuelve todo.
func (c *catalog) filtered(term string) []*entity.Product {
	if term == "" {
		return c.products
	}
	needle := strings.ToLower(term)
	var out []*entity.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Superficie del editor sobre el catálogo
// ─────────────────────────────────────────────────────────────────────────────

// Products devuelve el catálogo completo del tenant, cargándolo si hace falta.
func (e *Editor) Products(ctx context.Context) ([]*entity.Product, error) {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.catalog.ensureProducts(opCtx); err != nil {
		return nil, err
	}
	return e.catalog.products, nil
}

// FilteredProducts devuelve el catálogo visto desde una fila: filtrado por el
// término de búsqueda propio de esa fila, sin afectar a las demás.
func (e *Editor) FilteredProducts(ctx context.Context, i int) ([]*entity.Product, error) {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.rows) {
		return nil, domain.ErrNotFound
	}
	if err := e.catalog.ensureProducts(opCtx); err != nil {
		return nil, err
	}
	return e.catalog.filtered(e.rows[i].SearchTerm), nil
}

// SkusForProduct expone el resolver memoizado de SKUs de la sesión.
func (e *Editor) SkusForProduct(ctx context.Context, productID string) ([]*entity.ProductSku, error) {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.skusFor(opCtx, productID)
}

// SelectProduct asigna un producto del catálogo a una fila: fija nombre y
// ProductID, limpia el SKU anterior y, si el producto tiene exactamente un
// SKU, lo selecciona de inmediato.
func (e *Editor) SelectProduct(ctx context.Context, i int, productID string) error {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateFinalized {
		return domain.ErrFinalized
	}
	if i < 0 || i >= len(e.rows) {
		return domain.ErrNotFound
	}
	if err := e.catalog.ensureProducts(opCtx); err != nil {
		return err
	}
	product := e.catalog.findByID(productID)
	if product == nil {
		return domain.ErrNotFound
	}

	e.rows[i].ProductID = product.ID
	e.rows[i].ProductName = product.Name
	e.rows[i].SKU = ""

	skus, err := e.catalog.skusFor(opCtx, productID)
	if err != nil {
		return err
	}
	if len(skus) == 1 {
		e.rows[i].SKU = skus[0].Code
	}
	return nil
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmov-api/internal/application/dto"
	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// CatalogHandler expone el catálogo de productos y SKUs en solo lectura.
// El CRUD del catálogo vive en otro servicio; el editor solo necesita leer.
type CatalogHandler struct {
	gw movement.Gateway
}

// NewCatalogHandler construye el handler del catálogo.
func NewCatalogHandler(gw movement.Gateway) *CatalogHandler {
	return &CatalogHandler{gw: gw}
}

// ListProducts godoc
// @Summary      Listar productos del tenant
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.gw.ListProducts(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// ListSkus godoc
// @Summary      Listar SKUs de un producto
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.SkuResponse
// @Router       /api/products/{id}/skus [get]
func (h *CatalogHandler) ListSkus(c *fiber.Ctx) error {
	skus, err := h.gw.ListSkus(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SkuResponse, 0, len(skus))
	for _, s := range skus {
		out = append(out, toSkuResponse(s))
	}
	return c.JSON(out)
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}

func toSkuResponse(s *entity.ProductSku) dto.SkuResponse {
	return dto.SkuResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		Code:              s.Code,
		Colour:            s.Colour,
		Size:              s.Size,
		QuantityAvailable: s.QuantityAvailable,
	}
}

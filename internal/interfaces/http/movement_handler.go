package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmov-api/internal/application/dto"
	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
)

// MovementHandler expone cabeceras y líneas de movimiento sobre el Gateway.
type MovementHandler struct {
	gw movement.Gateway
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(gw movement.Gateway) *MovementHandler {
	return &MovementHandler{gw: gw}
}

// parseKind traduce el segmento de ruta (:kind) al kind de dominio. Un kind
// desconocido devuelve error de dominio; la respuesta HTTP la arma respondError.
func parseKind(c *fiber.Ctx) (string, error) {
	switch strings.ToLower(c.Params("kind")) {
	case "in":
		return entity.MovementKindIN, nil
	case "out":
		return entity.MovementKindOUT, nil
	default:
		return "", fmt.Errorf("%w: kind debe ser in o out", domain.ErrInvalidInput)
	}
}

// requireHeader carga la cabecera y verifica que pertenezca al tenant del token.
func (h *MovementHandler) requireHeader(c *fiber.Ctx, id string) (*entity.MovementHeader, error) {
	header, err := h.gw.GetHeader(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if header.TenantID != GetTenantID(c) {
		// un tenant nunca ve los registros de otro, ni como 403
		return nil, domain.ErrNotFound
	}
	return header, nil
}

// requireLine resuelve línea -> cabecera y aplica la misma regla de tenant que
// requireHeader a las rutas direccionadas por ID de línea.
func (h *MovementHandler) requireLine(c *fiber.Ctx, id string) (*entity.MovementLine, error) {
	line, err := h.gw.GetLine(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if _, err := h.requireHeader(c, line.HeaderID); err != nil {
		return nil, err
	}
	return line, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Cabeceras
// ─────────────────────────────────────────────────────────────────────────────

// List godoc
// @Summary      Listar cabeceras de movimiento
// @Tags         movements
// @Produce      json
// @Param        kind  path  string  true  "in | out"
// @Success      200   {array}  dto.HeaderResponse
// @Router       /api/movements/{kind} [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return respondError(c, err)
	}
	headers, err := h.gw.ListHeaders(c.Context(), GetTenantID(c), kind)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.HeaderResponse, 0, len(headers))
	for _, header := range headers {
		out = append(out, toHeaderResponse(header))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear cabecera en borrador
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        kind  path  string             true  "in | out"
// @Param        body  body  dto.HeaderRequest  true  "description, date"
// @Success      201   {object}  dto.HeaderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/{kind} [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.HeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	header, err := h.gw.CreateHeader(c.Context(), GetTenantID(c), kind, movement.HeaderInput{
		Description: in.Description,
		Date:        in.Date,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toHeaderResponse(header))
}

// GetByID godoc
// @Summary      Obtener una cabecera
// @Tags         movements
// @Produce      json
// @Success      200  {object}  dto.HeaderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{kind}/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	if _, err := parseKind(c); err != nil {
		return respondError(c, err)
	}
	header, err := h.requireHeader(c, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toHeaderResponse(header))
}

// Update godoc
// @Summary      Actualizar una cabecera en borrador
// @Tags         movements
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.HeaderResponse
// @Failure      409  {object}  dto.ErrorResponse  "finalizada"
// @Router       /api/movements/{kind}/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	if _, err := parseKind(c); err != nil {
		return respondError(c, err)
	}
	if _, err := h.requireHeader(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	var in dto.HeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	header, err := h.gw.UpdateHeader(c.Context(), c.Params("id"), movement.HeaderInput{
		Description: in.Description,
		Date:        in.Date,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toHeaderResponse(header))
}

// Delete godoc
// @Summary      Eliminar una cabecera en borrador con sus líneas
// @Tags         movements
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "finalizada"
// @Router       /api/movements/{kind}/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if _, err := parseKind(c); err != nil {
		return respondError(c, err)
	}
	if _, err := h.requireHeader(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	if err := h.gw.DeleteHeader(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Finalize godoc
// @Summary      Finalizar una cabecera (irreversible)
// @Tags         movements
// @Produce      json
// @Success      200  {object}  dto.HeaderResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya finalizada o stock insuficiente"
// @Router       /api/movements/{kind}/{id}/finalize [post]
func (h *MovementHandler) Finalize(c *fiber.Ctx) error {
	if _, err := parseKind(c); err != nil {
		return respondError(c, err)
	}
	if _, err := h.requireHeader(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	header, err := h.gw.FinalizeHeader(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toHeaderResponse(header))
}

// NextNumber godoc
// @Summary      Próximo número corrido autoritativo del tenant
// @Tags         movements
// @Produce      json
// @Success      200  {object}  dto.NextNumberResponse
// @Router       /api/movements/{kind}/next-number [get]
func (h *MovementHandler) NextNumber(c *fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return respondError(c, err)
	}
	running, err := h.gw.NextNumber(c.Context(), GetTenantID(c), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NextNumberResponse{RunningNumber: running})
}

// ─────────────────────────────────────────────────────────────────────────────
// Líneas
// ─────────────────────────────────────────────────────────────────────────────

// ListLines godoc
// @Summary      Listar líneas de una cabecera
// @Tags         movements
// @Produce      json
// @Success      200  {array}  dto.LineResponse
// @Router       /api/movements/{kind}/{id}/lines [get]
func (h *MovementHandler) ListLines(c *fiber.Ctx) error {
	if _, err := parseKind(c); err != nil {
		return respondError(c, err)
	}
	if _, err := h.requireHeader(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	lines, err := h.gw.ListLines(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, toLineResponse(line))
	}
	return c.JSON(out)
}

// CreateLine godoc
// @Summary      Agregar una línea a una cabecera en borrador
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LineRequest  true  "product_name, sku, quantity"
// @Success      201   {object}  dto.LineResponse
// @Failure      409   {object}  dto.ErrorResponse  "finalizada"
// @Router       /api/movements/{kind}/{id}/lines [post]
func (h *MovementHandler) CreateLine(c *fiber.Ctx) error {
	if _, err := parseKind(c); err != nil {
		return respondError(c, err)
	}
	if _, err := h.requireHeader(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	var in dto.LineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.gw.CreateLine(c.Context(), c.Params("id"), movement.LineInput{
		ProductName: in.ProductName,
		SKU:         in.SKU,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLineResponse(line))
}

// UpdateLine godoc
// @Summary      Actualizar una línea por su ID
// @Tags         movements
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.LineResponse
// @Failure      409  {object}  dto.ErrorResponse  "cabecera finalizada"
// @Router       /api/movement-lines/{id} [put]
func (h *MovementHandler) UpdateLine(c *fiber.Ctx) error {
	if _, err := h.requireLine(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	var in dto.LineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	line, err := h.gw.UpdateLine(c.Context(), c.Params("id"), movement.LineInput{
		ProductName: in.ProductName,
		SKU:         in.SKU,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLineResponse(line))
}

// DeleteLine godoc
// @Summary      Eliminar una línea por su ID
// @Tags         movements
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "cabecera finalizada"
// @Router       /api/movement-lines/{id} [delete]
func (h *MovementHandler) DeleteLine(c *fiber.Ctx) error {
	if _, err := h.requireLine(c, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	if err := h.gw.DeleteLine(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ─────────────────────────────────────────────────────────────────────────────
// Mapeos
// ─────────────────────────────────────────────────────────────────────────────

func toHeaderResponse(h *entity.MovementHeader) dto.HeaderResponse {
	return dto.HeaderResponse{
		ID:            h.ID,
		Kind:          h.Kind,
		RunningNumber: h.RunningNumber,
		Description:   h.Description,
		Date:          h.Date,
		CreatedBy:     h.CreatedBy,
		Finalized:     h.Finalized,
		Status:        h.StatusToken(),
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

func toLineResponse(l *entity.MovementLine) dto.LineResponse {
	return dto.LineResponse{
		ID:          l.ID,
		HeaderID:    l.HeaderID,
		ProductName: l.ProductName,
		SKU:         l.SKU,
		Quantity:    l.Quantity,
	}
}

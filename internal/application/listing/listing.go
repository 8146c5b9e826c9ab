// Package listing implementa la pantalla de listado de transacciones de un
// (tenant, kind): carga de cabeceras, búsqueda libre, apertura del editor en
// modo crear o editar, y borrado con guarda local de finalización.
package listing

import (
	"context"
	"strings"

	"github.com/jhoicas/stockmov-api/internal/application/movement"
	"github.com/jhoicas/stockmov-api/internal/domain"
	"github.com/jhoicas/stockmov-api/internal/domain/entity"
	"github.com/jhoicas/stockmov-api/internal/domain/sequence"
)

// Screen es la sesión de listado. No es segura para uso concurrente; cada
// pantalla abierta construye la suya.
type Screen struct {
	gw       movement.Gateway
	tenantID string
	kind     string

	headers []*entity.MovementHeader
	search  string
}

func NewScreen(gw movement.Gateway, tenantID, kind string) *Screen {
	return &Screen{gw: gw, tenantID: tenantID, kind: kind}
}

// Load trae las cabeceras del tenant para el kind de la pantalla.
func (s *Screen) Load(ctx context.Context) error {
	headers, err := s.gw.ListHeaders(ctx, s.tenantID, s.kind)
	if err != nil {
		return err
	}
	s.headers = headers
	return nil
}

// SetSearch fija el texto de búsqueda libre.
func (s *Screen) SetSearch(term string) {
	s.search = term
}

// Filtered devuelve las cabeceras que coinciden con la búsqueda, comparada
// sin distinguir mayúsculas contra el número corrido, la descripción y el
// token de estado sintetizado ("draft"/"finalized").
func (s *Screen) Filtered() []*entity.MovementHeader {
	if s.search == "" {
		return s.headers
	}
	needle := strings.ToLower(s.search)
	var out []*entity.MovementHeader
	for _, h := range s.headers {
		if strings.Contains(strings.ToLower(h.RunningNumber), needle) ||
			strings.Contains(strings.ToLower(h.Description), needle) ||
			strings.Contains(h.StatusToken(), needle) {
			out = append(out, h)
		}
	}
	return out
}

// OpenCreate devuelve la configuración con la que abrir el editor en modo
// crear: la sugerencia de número corrido calculada sobre el snapshot cargado.
// El servidor la reemplaza al primer guardado.
func (s *Screen) OpenCreate() string {
	existing := make([]string, 0, len(s.headers))
	for _, h := range s.headers {
		existing = append(existing, h.RunningNumber)
	}
	return sequence.Next(entity.RunningPrefix(s.kind), existing)
}

// OpenEdit devuelve el id con el que abrir el editor, o ErrNotFound si la
// cabecera ya no está en el snapshot.
func (s *Screen) OpenEdit(headerID string) (string, error) {
	for _, h := range s.headers {
		if h.ID == headerID {
			return h.ID, nil
		}
	}
	return "", domain.ErrNotFound
}

// Delete borra una cabecera en borrador y recarga el listado. Una cabecera
// finalizada se rechaza aquí mismo, sin emitir la llamada; el servidor
// mantiene la misma guarda por su cuenta.
func (s *Screen) Delete(ctx context.Context, headerID string) error {
	for _, h := range s.headers {
		if h.ID == headerID && h.Finalized {
			return domain.ErrFinalized
		}
	}
	if err := s.gw.DeleteHeader(ctx, headerID); err != nil {
		return err
	}
	return s.Load(ctx)
}

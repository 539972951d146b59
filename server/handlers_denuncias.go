package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/munidigital/portal-denuncias/denuncias"
	interrors "github.com/munidigital/portal-denuncias/internal/errors"
	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/schema"
	"github.com/munidigital/portal-denuncias/validate"
)

// newFolio derives the public tracking number for a fresh complaint.
func newFolio() string {
	return "DEN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

type denunciaView struct {
	ID          string  `json:"id"`
	Folio       string  `json:"folio"`
	Titulo      string  `json:"titulo"`
	Descripcion string  `json:"descripcion"`
	CategoriaID string  `json:"categoria_id"`
	Direccion   string  `json:"direccion,omitempty"`
	Latitud     float64 `json:"latitud"`
	Longitud    float64 `json:"longitud"`
	Estado      string  `json:"estado"`
	InspectorID string  `json:"inspector_id,omitempty"`
	CreadaEn    string  `json:"creada_en"`
	Advertencia string  `json:"advertencia,omitempty"`
}

func denunciaToView(d *denuncias.Denuncia) denunciaView {
	return denunciaView{
		ID:          d.ID,
		Folio:       d.Folio,
		Titulo:      d.Titulo,
		Descripcion: d.Descripcion,
		CategoriaID: d.CategoriaID,
		Direccion:   d.Direccion,
		Latitud:     d.Latitud,
		Longitud:    d.Longitud,
		Estado:      string(d.Estado),
		InspectorID: d.InspectorID,
		CreadaEn:    d.CreadaEn.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateDenuncia(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		validate.NewResponse(http.StatusBadRequest, "cuerpo JSON inválido", nil).Write(w)
		return
	}
	parsed, resp := s.validator.Input(schema.CreateDenuncia(), body)
	if resp != nil {
		resp.Write(w)
		return
	}
	data := parsed.(map[string]any)

	point := validate.NormalizeCoordinates(
		data["latitud"].(float64), data["longitud"].(float64),
		validate.CountryBounds, validate.LocalBounds)
	if !point.Valid {
		validate.NewResponse(http.StatusBadRequest, "coordenadas fuera del territorio nacional", map[string][]string{
			"latitud":  {"fuera de rango"},
			"longitud": {"fuera de rango"},
		}).Write(w)
		return
	}
	if point.Warning != "" {
		s.log.Warn("coordenadas con advertencia", logging.Context{
			"advertencia": point.Warning,
			"latitud":     point.Lat,
			"longitud":    point.Lng,
		})
	}

	identity := IdentityFrom(r.Context())
	now := time.Now()
	d := &denuncias.Denuncia{
		ID:            uuid.NewString(),
		Folio:         newFolio(),
		Titulo:        data["titulo"].(string),
		Descripcion:   data["descripcion"].(string),
		CategoriaID:   data["categoria_id"].(string),
		Latitud:       point.Lat,
		Longitud:      point.Lng,
		Estado:        denuncias.EstadoPendiente,
		CreadaPor:     identity.UsuarioID,
		CreadaEn:      now,
		ActualizadaEn: now,
	}
	if direccion, ok := data["direccion"].(string); ok {
		d.Direccion = direccion
	}

	if err := s.repos.Denuncias.Create(r.Context(), d); err != nil {
		if resp := s.validator.DuplicateKey(err, "Ya existe una denuncia con ese folio"); resp != nil {
			resp.Write(w)
			return
		}
		s.internalError(w, "creando denuncia", err)
		return
	}

	view := denunciaToView(d)
	view.Advertencia = point.Warning
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetDenuncia(w http.ResponseWriter, r *http.Request) {
	id, resp := s.parseID(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	d, err := s.repos.Denuncias.Get(r.Context(), id)
	if err != nil {
		s.notFoundOrInternal(w, "obteniendo denuncia", err, "Denuncia no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, denunciaToView(d))
}

func (s *Server) handleUpdateDenuncia(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		validate.NewResponse(http.StatusBadRequest, "cuerpo JSON inválido", nil).Write(w)
		return
	}
	body["id"] = chi.URLParam(r, "id")
	parsed, resp := s.validator.Input(schema.UpdateDenuncia(), body)
	if resp != nil {
		resp.Write(w)
		return
	}
	data := parsed.(map[string]any)

	if estado, ok := data["estado"].(string); ok && !denuncias.ValidEstado(estado) {
		validate.NewResponse(http.StatusBadRequest, "estado desconocido", map[string][]string{
			"estado": {"debe ser uno de: pendiente, en_proceso, resuelta, rechazada"},
		}).Write(w)
		return
	}

	d, err := s.repos.Denuncias.Get(r.Context(), data["id"].(string))
	if err != nil {
		s.notFoundOrInternal(w, "obteniendo denuncia", err, "Denuncia no encontrada")
		return
	}

	applyDenunciaUpdate(d, data)

	lat, latSet := data["latitud"].(float64)
	lng, lngSet := data["longitud"].(float64)
	if latSet || lngSet {
		if !latSet {
			lat = d.Latitud
		}
		if !lngSet {
			lng = d.Longitud
		}
		point := validate.NormalizeCoordinates(lat, lng, validate.CountryBounds, validate.LocalBounds)
		if !point.Valid {
			validate.NewResponse(http.StatusBadRequest, "coordenadas fuera del territorio nacional", map[string][]string{
				"latitud":  {"fuera de rango"},
				"longitud": {"fuera de rango"},
			}).Write(w)
			return
		}
		d.Latitud = point.Lat
		d.Longitud = point.Lng
	}

	d.ActualizadaEn = time.Now()
	if err := s.repos.Denuncias.Update(r.Context(), d); err != nil {
		s.notFoundOrInternal(w, "actualizando denuncia", err, "Denuncia no encontrada")
		return
	}
	writeJSON(w, http.StatusOK, denunciaToView(d))
}

func applyDenunciaUpdate(d *denuncias.Denuncia, data map[string]any) {
	if titulo, ok := data["titulo"].(string); ok {
		d.Titulo = titulo
	}
	if descripcion, ok := data["descripcion"].(string); ok {
		d.Descripcion = descripcion
	}
	if categoriaID, ok := data["categoria_id"].(string); ok {
		d.CategoriaID = categoriaID
	}
	if estado, ok := data["estado"].(string); ok {
		d.Estado = denuncias.Estado(estado)
	}
	if inspectorID, ok := data["inspector_id"].(string); ok {
		d.InspectorID = inspectorID
	}
	if direccion, ok := data["direccion"].(string); ok {
		d.Direccion = direccion
	}
}

func (s *Server) handleDeleteDenuncia(w http.ResponseWriter, r *http.Request) {
	id, resp := s.parseID(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	if err := s.repos.Denuncias.Delete(r.Context(), id); err != nil {
		s.notFoundOrInternal(w, "eliminando denuncia", err, "Denuncia no encontrada")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDenuncias(w http.ResponseWriter, r *http.Request) {
	page, limit, resp := s.parsePagination(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	items, total, err := s.repos.Denuncias.List(r.Context(), page, limit)
	if err != nil {
		s.internalError(w, "listando denuncias", err)
		return
	}
	views := make([]denunciaView, 0, len(items))
	for _, d := range items {
		views = append(views, denunciaToView(d))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: views, Total: total, Page: page, Limit: limit})
}

// Shared request plumbing for both resources.

func (s *Server) parseID(r *http.Request) (string, *validate.Response) {
	parsed, resp := s.validator.Input(schema.DeleteByID(), map[string]any{"id": chi.URLParam(r, "id")})
	if resp != nil {
		return "", resp
	}
	return parsed.(map[string]any)["id"].(string), nil
}

func (s *Server) parsePagination(r *http.Request) (page, limit int, resp *validate.Response) {
	parsed, resp := s.validator.Input(schema.ListQuery(), queryValues(r))
	if resp != nil {
		return 0, 0, resp
	}
	data := parsed.(map[string]any)
	return data["page"].(int), data["limit"].(int), nil
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, err, nil)
	validate.NewResponse(http.StatusInternalServerError, validate.MsgInternal, nil).Write(w)
}

func (s *Server) notFoundOrInternal(w http.ResponseWriter, msg string, err error, notFoundMsg string) {
	if interrors.Is(err, interrors.ErrNotFound) {
		validate.NewResponse(http.StatusNotFound, notFoundMsg, nil).Write(w)
		return
	}
	s.internalError(w, msg, err)
}

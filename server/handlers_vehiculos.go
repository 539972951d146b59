package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/munidigital/portal-denuncias/schema"
	"github.com/munidigital/portal-denuncias/validate"
	"github.com/munidigital/portal-denuncias/vehiculos"
)

type vehiculoView struct {
	ID          string `json:"id"`
	Patente     string `json:"patente"`
	Marca       string `json:"marca"`
	Modelo      string `json:"modelo"`
	InspectorID string `json:"inspector_id,omitempty"`
	Activo      bool   `json:"activo"`
	CreadoEn    string `json:"creado_en"`
}

func vehiculoToView(v *vehiculos.Vehiculo) vehiculoView {
	return vehiculoView{
		ID:          v.ID,
		Patente:     v.Patente,
		Marca:       v.Marca,
		Modelo:      v.Modelo,
		InspectorID: v.InspectorID,
		Activo:      v.Activo,
		CreadoEn:    v.CreadoEn.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateVehiculo(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		validate.NewResponse(http.StatusBadRequest, "cuerpo JSON inválido", nil).Write(w)
		return
	}
	parsed, resp := s.validator.Input(schema.CreateVehiculo(), body)
	if resp != nil {
		resp.Write(w)
		return
	}
	data := parsed.(map[string]any)

	v := &vehiculos.Vehiculo{
		ID:       uuid.NewString(),
		Patente:  data["patente"].(string),
		Marca:    data["marca"].(string),
		Modelo:   data["modelo"].(string),
		Activo:   true,
		CreadoEn: time.Now(),
	}
	if inspectorID, ok := data["inspector_id"].(string); ok {
		v.InspectorID = inspectorID
	}

	if err := s.repos.Vehiculos.Create(r.Context(), v); err != nil {
		if resp := s.validator.DuplicateKey(err, "Ya existe un vehículo con esa patente"); resp != nil {
			resp.Write(w)
			return
		}
		s.internalError(w, "creando vehículo", err)
		return
	}
	writeJSON(w, http.StatusCreated, vehiculoToView(v))
}

func (s *Server) handleGetVehiculo(w http.ResponseWriter, r *http.Request) {
	id, resp := s.parseID(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	v, err := s.repos.Vehiculos.Get(r.Context(), id)
	if err != nil {
		s.notFoundOrInternal(w, "obteniendo vehículo", err, "Vehículo no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, vehiculoToView(v))
}

func (s *Server) handleUpdateVehiculo(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		validate.NewResponse(http.StatusBadRequest, "cuerpo JSON inválido", nil).Write(w)
		return
	}
	body["id"] = chi.URLParam(r, "id")
	parsed, resp := s.validator.Input(schema.UpdateVehiculo(), body)
	if resp != nil {
		resp.Write(w)
		return
	}
	data := parsed.(map[string]any)

	v, err := s.repos.Vehiculos.Get(r.Context(), data["id"].(string))
	if err != nil {
		s.notFoundOrInternal(w, "obteniendo vehículo", err, "Vehículo no encontrado")
		return
	}

	if patente, ok := data["patente"].(string); ok {
		v.Patente = patente
	}
	if marca, ok := data["marca"].(string); ok {
		v.Marca = marca
	}
	if modelo, ok := data["modelo"].(string); ok {
		v.Modelo = modelo
	}
	if inspectorID, ok := data["inspector_id"].(string); ok {
		v.InspectorID = inspectorID
	}
	if activo, ok := data["activo"].(bool); ok {
		v.Activo = activo
	}

	if err := s.repos.Vehiculos.Update(r.Context(), v); err != nil {
		if resp := s.validator.DuplicateKey(err, "Ya existe un vehículo con esa patente"); resp != nil {
			resp.Write(w)
			return
		}
		s.notFoundOrInternal(w, "actualizando vehículo", err, "Vehículo no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, vehiculoToView(v))
}

func (s *Server) handleDeleteVehiculo(w http.ResponseWriter, r *http.Request) {
	id, resp := s.parseID(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	if err := s.repos.Vehiculos.Delete(r.Context(), id); err != nil {
		s.notFoundOrInternal(w, "eliminando vehículo", err, "Vehículo no encontrado")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListVehiculos(w http.ResponseWriter, r *http.Request) {
	page, limit, resp := s.parsePagination(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	items, total, err := s.repos.Vehiculos.List(r.Context(), page, limit)
	if err != nil {
		s.internalError(w, "listando vehículos", err)
		return
	}
	views := make([]vehiculoView, 0, len(items))
	for _, v := range items {
		views = append(views, vehiculoToView(v))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: views, Total: total, Page: page, Limit: limit})
}

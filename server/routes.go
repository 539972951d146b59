package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/munidigital/portal-denuncias/ratelimit"
)

// Rate-limit bucket keys. One bucket per endpoint and traffic class so a
// burst of writes does not starve reads.
const (
	keyDenunciasRead   = "denuncias:lectura"
	keyDenunciasWrite  = "denuncias:escritura"
	keyDenunciasDelete = "denuncias:critica"
	keyVehiculosRead   = "vehiculos:lectura"
	keyVehiculosWrite  = "vehiculos:escritura"
	keyVehiculosDelete = "vehiculos:critica"
)

func (s *Server) initRoutes() {
	s.router.Get("/salud", s.handleHealth)

	s.router.Route("/api/denuncias", func(r chi.Router) {
		r.Get("/", s.guarded(keyDenunciasRead, ratelimit.Read, s.handleListDenuncias))
		r.Post("/", s.guarded(keyDenunciasWrite, ratelimit.Write, s.handleCreateDenuncia))
		r.Get("/{id}", s.guarded(keyDenunciasRead, ratelimit.Read, s.handleGetDenuncia))
		r.Put("/{id}", s.guarded(keyDenunciasWrite, ratelimit.Write, s.handleUpdateDenuncia))
		r.Delete("/{id}", s.guarded(keyDenunciasDelete, ratelimit.Critical, s.handleDeleteDenuncia))
	})

	s.router.Route("/api/vehiculos", func(r chi.Router) {
		r.Get("/", s.guarded(keyVehiculosRead, ratelimit.Read, s.handleListVehiculos))
		r.Post("/", s.guarded(keyVehiculosWrite, ratelimit.Write, s.handleCreateVehiculo))
		r.Get("/{id}", s.guarded(keyVehiculosRead, ratelimit.Read, s.handleGetVehiculo))
		r.Put("/{id}", s.guarded(keyVehiculosWrite, ratelimit.Write, s.handleUpdateVehiculo))
		r.Delete("/{id}", s.guarded(keyVehiculosDelete, ratelimit.Critical, s.handleDeleteVehiculo))
	})
}

// guarded builds the standard chain for an API route: recover, rate
// limit, then authentication. Validation happens inside each handler.
func (s *Server) guarded(endpointKey string, cfg ratelimit.Config, handler http.HandlerFunc) http.HandlerFunc {
	return chainMiddleware(handler,
		s.recoverMiddleware,
		s.rateLimitMiddleware(endpointKey, cfg),
		s.authMiddleware,
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"estado": "ok", "entorno": s.config.Env})
}

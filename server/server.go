// Package server exposes the portal API: denuncias and vehículos CRUD
// behind the rate-limit, auth and validation chain.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/munidigital/portal-denuncias/auth"
	"github.com/munidigital/portal-denuncias/denuncias"
	"github.com/munidigital/portal-denuncias/internal/config"
	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/ratelimit"
	"github.com/munidigital/portal-denuncias/usuarios"
	"github.com/munidigital/portal-denuncias/validate"
	"github.com/munidigital/portal-denuncias/vehiculos"
)

// Repos groups the storage backends the handlers operate on.
type Repos struct {
	Denuncias denuncias.Repo
	Vehiculos vehiculos.Repo
	Usuarios  usuarios.Repo
}

type Server struct {
	router    *chi.Mux
	config    config.Config
	log       *logging.Logger
	validator *validate.Validator
	guard     *auth.Guard
	limiter   *ratelimit.Limiter
	repos     Repos
}

func New(cfg config.Config, log *logging.Logger, guard *auth.Guard, limiter *ratelimit.Limiter, repos Repos) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		log:       log,
		validator: validate.New(log),
		guard:     guard,
		limiter:   limiter,
		repos:     repos,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// chainMiddleware applies wrappers in reverse so the first listed runs
// first on the request path.
func chainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

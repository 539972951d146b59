package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/munidigital/portal-denuncias/auth"
	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/ratelimit"
	"github.com/munidigital/portal-denuncias/validate"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const contextKeyIdentity contextKey = "identidad"

// IdentityFrom returns the authenticated identity stored by the auth
// middleware, or nil outside a guarded route.
func IdentityFrom(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(contextKeyIdentity).(*auth.Identity)
	return identity
}

// authMiddleware runs both authentication gates and stores the resulting
// identity in the request context. Infrastructure failures never leak
// detail to the client.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.guard.Authenticate(r)
		if err != nil {
			var authErr *auth.AuthError
			if errors.As(err, &authErr) {
				validate.NewResponse(authErr.Status, authErr.Message, nil).Write(w)
				return
			}
			s.log.Error("fallo de autenticación", err, logging.Context{"ruta": r.URL.Path})
			validate.NewResponse(http.StatusInternalServerError, validate.MsgInternal, nil).Write(w)
			return
		}
		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next(w, r.WithContext(ctx))
	}
}

// rateLimitMiddleware counts the request against its bucket before any
// other work happens. Allowed requests still carry the window headers.
func (s *Server) rateLimitMiddleware(endpointKey string, cfg ratelimit.Config) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			info, resp := s.limiter.Check(r, endpointKey, cfg)
			if resp != nil {
				resp.Write(w)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			next(w, r)
		}
	}
}

// recoverMiddleware converts a handler panic into a logged generic 500 so
// the connection never drops with a half-written response.
func (s *Server) recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = errors.New("panic en handler")
				}
				s.log.Error("pánico recuperado", err, logging.Context{
					"ruta":   r.URL.Path,
					"metodo": r.Method,
					"valor":  rec,
				})
				validate.NewResponse(http.StatusInternalServerError, validate.MsgInternal, nil).Write(w)
			}
		}()
		next(w, r)
	}
}

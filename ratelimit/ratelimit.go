// Package ratelimit bounds request frequency per client identity per
// endpoint using fixed counting windows. Enforcement always fails open: a
// store failure allows the request after logging, never rejects it.
package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/munidigital/portal-denuncias/validate"
)

// Config is one traffic class: how many requests fit in a window and the
// message returned when the limit is hit.
type Config struct {
	MaxRequests int
	Window      time.Duration
	Message     string
}

// Preset configurations by traffic class.
var (
	Login    = Config{MaxRequests: 5, Window: time.Minute, Message: "Demasiados intentos de inicio de sesión, intente más tarde"}
	Write    = Config{MaxRequests: 30, Window: time.Minute, Message: "Demasiadas solicitudes de escritura, intente más tarde"}
	Read     = Config{MaxRequests: 100, Window: time.Minute, Message: "Demasiadas solicitudes, intente más tarde"}
	Critical = Config{MaxRequests: 10, Window: time.Minute, Message: "Demasiadas solicitudes para esta operación, intente más tarde"}
)

// Info carries the window state computed for a request. On allowed
// requests attaching it to the response is left to the caller.
type Info struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter checks requests against a Store.
type Limiter struct {
	store Store
	log   *logging.Logger
	now   func() time.Time
}

// Option modifies a Limiter.
type Option func(*Limiter)

// WithNow sets the clock (primarily for testing).
func WithNow(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func New(store Store, log *logging.Logger, options ...Option) *Limiter {
	l := &Limiter{store: store, log: log, now: time.Now}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Check counts the request against its (endpoint, client) bucket. It
// returns a 429 response when the limit is exceeded and nil when the
// request may proceed — including when the store fails, which is logged
// and forgiven.
func (l *Limiter) Check(r *http.Request, endpointKey string, cfg Config) (Info, *validate.Response) {
	clientID := ClientIdentifier(r)
	key := fmt.Sprintf("ratelimit:%s:%s", endpointKey, clientID)

	entry, err := l.store.Increment(r.Context(), key, cfg.Window)
	if err != nil {
		l.log.Error("rate limiter no disponible, permitiendo solicitud", err, logging.Context{
			"endpoint": endpointKey,
			"cliente":  clientID,
		})
		return Info{Limit: cfg.MaxRequests, Remaining: cfg.MaxRequests}, nil
	}

	remaining := cfg.MaxRequests - entry.Count
	if remaining < 0 {
		remaining = 0
	}
	info := Info{Limit: cfg.MaxRequests, Remaining: remaining, ResetAt: entry.ResetAt}

	if entry.Count > cfg.MaxRequests {
		l.log.Warn("límite de solicitudes excedido", logging.Context{
			"endpoint": endpointKey,
			"cliente":  clientID,
			"contador": entry.Count,
			"limite":   cfg.MaxRequests,
		})
		retryAfter := int(entry.ResetAt.Sub(l.now()).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}
		resp := validate.NewResponse(http.StatusTooManyRequests, cfg.Message, nil)
		resp.RetryAfterISO = entry.ResetAt.UTC().Format(time.RFC3339)
		resp.Headers = map[string]string{
			"X-RateLimit-Limit":     strconv.Itoa(cfg.MaxRequests),
			"X-RateLimit-Remaining": "0",
			"X-RateLimit-Reset":     strconv.FormatInt(entry.ResetAt.Unix(), 10),
			"Retry-After":           strconv.Itoa(retryAfter),
		}
		return info, resp
	}

	return info, nil
}

// ClientIdentifier resolves who is asking: the first forwarded-for hop,
// else the real-ip header, else a coarse bucket derived from the
// user-agent so fully anonymous clients still share one.
func ClientIdentifier(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	ua := r.Header.Get("User-Agent")
	if len(ua) > 50 {
		ua = ua[:50]
	}
	if ua == "" {
		ua = "desconocido"
	}
	return "ua:" + ua
}

// Package sessionjwt resolves the request principal from a shared-secret
// HS256 session token, as issued by the hosted auth service.
package sessionjwt

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/munidigital/portal-denuncias/auth"
)

// SessionCookie is checked when the Authorization header is absent.
const SessionCookie = "portal_session"

var _ auth.PrincipalProvider = (*Provider)(nil)

type Provider struct {
	secret []byte
	parser *jwt.Parser
}

func New(secret string) *Provider {
	return &Provider{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// CurrentPrincipal verifies the request's session token. A missing,
// malformed or expired token yields (nil, nil): the request simply has no
// session.
func (p *Provider) CurrentPrincipal(_ context.Context, r *http.Request) (*auth.Principal, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	claims := &sessionClaims{}
	token, err := p.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, nil
	}

	return &auth.Principal{ID: claims.Subject, Email: claims.Email}, nil
}

func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Package sessionoidc resolves the request principal by verifying an OIDC
// ID token against the configured identity provider.
package sessionoidc

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/munidigital/portal-denuncias/auth"
	"golang.org/x/oauth2"
)

// SessionCookie is checked when the Authorization header is absent.
const SessionCookie = "portal_id_token"

var _ auth.PrincipalProvider = (*Provider)(nil)

type Provider struct {
	verifier *oidc.IDTokenVerifier
	oauthCfg *oauth2.Config
}

// New discovers the issuer and prepares the token verifier plus the OAuth2
// configuration used by the login flow.
func New(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*Provider, error) {
	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return &Provider{
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
		oauthCfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// OAuth2Config exposes the authorization-code flow configuration for the
// login handlers outside this core.
func (p *Provider) OAuth2Config() *oauth2.Config {
	return p.oauthCfg
}

// CurrentPrincipal verifies the request's ID token. Any verification
// failure means the request has no session.
func (p *Provider) CurrentPrincipal(ctx context.Context, r *http.Request) (*auth.Principal, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, nil
	}

	var claims struct {
		Email string `json:"email"`
	}
	_ = idToken.Claims(&claims)

	return &auth.Principal{ID: idToken.Subject, Email: claims.Email}, nil
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

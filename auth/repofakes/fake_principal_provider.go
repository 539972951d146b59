package repofakes

import (
	"context"
	"net/http"
	"sync"

	"github.com/munidigital/portal-denuncias/auth"
)

var _ auth.PrincipalProvider = (*FakePrincipalProvider)(nil)

// FakePrincipalProvider returns a fixed principal (or error) and counts
// invocations.
type FakePrincipalProvider struct {
	Principal *auth.Principal
	Err       error

	lock  sync.Mutex
	calls int
}

func NewFakePrincipalProvider(principal *auth.Principal) *FakePrincipalProvider {
	return &FakePrincipalProvider{Principal: principal}
}

func (p *FakePrincipalProvider) CurrentPrincipal(_ context.Context, _ *http.Request) (*auth.Principal, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Principal, nil
}

func (p *FakePrincipalProvider) Calls() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.calls
}

package repofakes

import (
	"context"
	"sync"

	"github.com/munidigital/portal-denuncias/auth"
	interrors "github.com/munidigital/portal-denuncias/internal/errors"
)

var _ auth.AccountRepo = (*FakeAccountRepo)(nil)

// FakeAccountRepo serves accounts from an in-memory map keyed by principal
// identifier and counts lookups.
type FakeAccountRepo struct {
	Err error

	lock     sync.Mutex
	accounts map[string]*auth.Account
	calls    int
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{accounts: make(map[string]*auth.Account)}
}

func (r *FakeAccountRepo) Put(principalID string, account *auth.Account) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.accounts[principalID] = account
}

func (r *FakeAccountRepo) FindByPrincipalID(_ context.Context, principalID string) (*auth.Account, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.calls++
	if r.Err != nil {
		return nil, r.Err
	}
	account, ok := r.accounts[principalID]
	if !ok {
		return nil, interrors.ErrAccountNotFound
	}
	return account, nil
}

func (r *FakeAccountRepo) Calls() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.calls
}

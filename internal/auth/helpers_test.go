package auth

import (
	"context"
	"errors"
	"sync"

	"stockdesk/internal/models"
)

type fakeIdentity struct {
	ident    Identity
	password string
}

type fakeProvider struct {
	mu     sync.Mutex
	users  map[string]fakeIdentity
	nextID uint
	down   bool
}

func newFakeProvider() *fakeProvider {
	p := &fakeProvider{users: map[string]fakeIdentity{}}
	p.add("admin", "Admin123!", models.RoleAdmin)
	p.add("assist", "Assist123!", models.RoleAssistant)
	p.add("cash", "Cash123!", models.RoleCashier)
	return p
}

func (p *fakeProvider) add(username, password string, role models.UserRole) {
	p.nextID++
	p.users[username] = fakeIdentity{
		ident: Identity{
			UserID:      p.nextID,
			Username:    username,
			DisplayName: username + " user",
			Role:        role,
		},
		password: password,
	}
}

var errProviderDown = errors.New("provider down")

func (p *fakeProvider) Authenticate(_ context.Context, identifier, secret string) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.down {
		return nil, errProviderDown
	}
	u, ok := p.users[identifier]
	if !ok || u.password != secret {
		return nil, ErrInvalidCredentials
	}
	ident := u.ident
	return &ident, nil
}

func (p *fakeProvider) Enroll(_ context.Context, acct Account) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[acct.Username]; ok {
		return nil, ErrIdentifierTaken
	}
	p.add(acct.Username, acct.Password, acct.Role)
	ident := p.users[acct.Username].ident
	ident.DisplayName = acct.FullName
	return &ident, nil
}

// mapHolder stands in for a cookie session.
type mapHolder struct {
	values  map[interface{}]interface{}
	saves   int
	saveErr error
}

func newMapHolder() *mapHolder {
	return &mapHolder{values: map[interface{}]interface{}{}}
}

func (h *mapHolder) Get(key interface{}) interface{} { return h.values[key] }

func (h *mapHolder) Set(key interface{}, val interface{}) { h.values[key] = val }

func (h *mapHolder) Clear() { h.values = map[interface{}]interface{}{} }

func (h *mapHolder) Save() error {
	h.saves++
	return h.saveErr
}

package auth

import (
	"context"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// StaticProvider serves a fixed identity (or anonymous when constructed
// with nil). It backs the offline demo mode, where no auth backend exists.
type StaticProvider struct {
	state *broadcaster
}

func NewStaticProvider(ident *models.Identity) *StaticProvider {
	p := &StaticProvider{state: newBroadcaster()}
	p.state.set(ident)
	return p
}

func (p *StaticProvider) Subscribe() (<-chan *models.Identity, Unsubscribe) {
	return p.state.subscribe()
}

func (p *StaticProvider) SignUp(context.Context, string, string, string) (*models.Identity, error) {
	return nil, faults.New(faults.Validation, "sign-up is not available offline")
}

func (p *StaticProvider) SignIn(context.Context, string, string) (*models.Identity, error) {
	return nil, faults.New(faults.Validation, "sign-in is not available offline")
}

func (p *StaticProvider) SignOut(context.Context) error {
	p.state.set(nil)
	return nil
}

func (p *StaticProvider) UpdateDisplayName(_ context.Context, displayName string) error {
	current := p.state.get()
	if current == nil {
		return faults.New(faults.NotAuthenticated, "sign in required")
	}
	updated := *current
	updated.DisplayName = displayName
	p.state.set(&updated)
	return nil
}

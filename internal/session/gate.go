// Package session tracks the current identity and gates actions that
// require one. The gate never blocks rendering: before the first auth
// delivery arrives the state is simply "anonymous", which is valid and
// immediately renderable.
package session

import (
	"sync"

	"github.com/ranihwanifactory/2026newyear/internal/auth"
	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// PromptFunc is invoked when an identity-gated action is attempted while
// anonymous, typically to open a sign-in prompt.
type PromptFunc func()

// Gate subscribes to the auth provider's identity stream for its lifetime.
type Gate struct {
	prompt    PromptFunc
	unsub     auth.Unsubscribe
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.RWMutex
	current *models.Identity
}

func NewGate(provider auth.Provider, prompt PromptFunc) *Gate {
	g := &Gate{
		prompt: prompt,
		done:   make(chan struct{}),
	}
	ch, unsub := provider.Subscribe()
	g.unsub = unsub
	go g.watch(ch)
	return g
}

func (g *Gate) watch(ch <-chan *models.Identity) {
	for {
		select {
		case <-g.done:
			return
		case ident, ok := <-ch:
			if !ok {
				return
			}
			g.mu.Lock()
			g.current = ident
			g.mu.Unlock()
		}
	}
}

// Current returns the identity or nil without blocking.
func (g *Gate) Current() *models.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current
}

// Require returns the identity, or routes to the sign-in prompt and
// reports NotAuthenticated when anonymous.
func (g *Gate) Require() (*models.Identity, error) {
	if ident := g.Current(); ident != nil {
		return ident, nil
	}
	if g.prompt != nil {
		g.prompt()
	}
	return nil, faults.New(faults.NotAuthenticated, "sign in required")
}

// Close unsubscribes from the auth provider. Safe to call repeatedly.
func (g *Gate) Close() {
	g.closeOnce.Do(func() {
		close(g.done)
		g.unsub()
	})
}

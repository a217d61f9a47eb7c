// Package auth supplies the session identity. The board never stores
// identities itself; it consumes a provider's identity-changed stream and
// calls back into the provider for interactive sign-in.
package auth

import (
	"context"

	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// Unsubscribe cancels an identity subscription.
type Unsubscribe func()

// Provider is the auth collaborator contract. Subscribe delivers the
// current identity immediately (nil means anonymous) and every change
// afterwards until unsubscribed.
type Provider interface {
	Subscribe() (<-chan *models.Identity, Unsubscribe)
	SignUp(ctx context.Context, email, password, displayName string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	UpdateDisplayName(ctx context.Context, displayName string) error
}

// Package fortune wraps the generative-language collaborator that writes
// the optional encouragement attached to a new wish. The whole feature is
// best-effort: an error or empty result is an acceptable outcome and must
// never fail the surrounding create.
package fortune

import (
	"context"
)

// Generator produces a short fortune for the given wish content.
type Generator interface {
	Generate(ctx context.Context, content string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, content string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, content string) (string, error) {
	return f(ctx, content)
}

// Package genai sends prompts to the model provider.
package genai

import (
	"context"

	"github.com/finlens/insight-go/core"
)

// Generator produces one completion for a prompt. Implementations must be
// safe for concurrent use.
type Generator interface {
	Complete(ctx context.Context, msgs []core.Message, opts core.GenerateOptions) (string, error)
}

// Package llm defines the provider-neutral contract for text generation.
package llm

import (
	"context"
	"errors"
)

// ErrNoText marks a well-formed provider response that carries no usable
// candidate text. Callers substitute their own fallback copy.
var ErrNoText = errors.New("llm: no text in response")

// Generator produces a single-turn completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Package provider wraps the two hosted-model operations the assistant uses,
// conversational completion and image synthesis, behind one small contract.
// Every call is a single attempt with no retries.
package provider

import (
	"context"

	"yai-assistant/internal/types"
)

type Gateway interface {
	// Complete returns the text of the first candidate, or "" when the
	// provider returned no content. turns must be non-empty.
	Complete(ctx context.Context, turns []types.Turn) (string, error)
	// Synthesize returns a locator (URL) for the first generated image.
	// It fails with ErrNoAsset when the provider produced none.
	Synthesize(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Gateway bound to one access key. Endpoints call it per
// request with the key resolved from configuration.
type Factory func(apiKey string) Gateway

type Options struct {
	BaseURL    string
	Model      string
	ImageModel string
	ImageSize  string
	Persona    *Persona
}

package llm

import (
	"context"
)

// Prompt is a single-turn request to a language model.
type Prompt struct {
	// System is the static instruction block.
	System string
	// User is the variable content for this call.
	User string
	// CacheSystem asks the provider to cache System across calls.
	CacheSystem bool
}

// Completer defines the interface for one blocking round trip to a hosted model.
type Completer interface {
	// Complete sends p and returns the first text block of the reply.
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Package backend wraps the two language-model providers behind one
// Generate contract so callers deal in results, not SDK exceptions.
package backend

import (
	"context"
	"fmt"

	"github.com/rkaranam/concierge/models"
)

// SpokenFallback is returned to the caller of a phone turn whose backend
// call failed. The call stays alive so the user can simply try again.
const SpokenFallback = "I apologize, but I'm having trouble processing that right now. Could you please try again?"

// Opts tunes a single generation request. Zero values mean provider defaults.
type Opts struct {
	MaxTokens   int64
	Temperature float64
}

// Error is any transport, auth, rate-limit or model failure from a provider.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Generator is one language-model backend.
//
// When history is nil the client may use its own accumulated transcript
// (the long-lived chat lane). When history is non-nil it is caller-owned
// prior context, preamble first; the client prepends it, appends prompt as
// the user turn for this request only, and mutates no internal state.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []models.Turn, opts Opts) (string, error)
}

// Package insight wraps an external generative text provider as an analysis
// agent. Provider failures are non-fatal: every failure mode degrades to a
// fixed, deterministic payload.
package insight

import (
	"context"
	"errors"
	"fmt"
)

// Provider is a generative text backend. Generate issues exactly one
// request and returns the raw response text; it never retries.
type Provider interface {
	// Name identifies the provider in result payloads.
	Name() string
	// Configured reports whether credentials are present. Unconfigured
	// providers are never called.
	Configured() bool
	// Generate sends one prompt and returns the raw response text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured marks a provider without credentials.
var ErrNotConfigured = errors.New("external insight provider not configured")

// ProviderError reports a failed provider call: network error, timeout, or
// an unexpected HTTP status.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports a provider response that could not be parsed as the
// expected structure.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable provider response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

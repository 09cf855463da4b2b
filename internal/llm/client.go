// Package llm provides the completion gateway and the language-model
// provider chain it falls through.
package llm

import "context"

// CompletionRequest is a single logical "generate text" request. It is a
// value object constructed per call and never retained.
type CompletionRequest struct {
	Prompt        string
	SystemMessage string
	Temperature   float32
	MaxTokens     int
}

// Completer is the surface higher components depend on. The gateway
// implements it; tests substitute mocks.
type Completer interface {
	// GenerateCompletion returns the first successful provider response for
	// the request, or an error only if every configured provider failed.
	GenerateCompletion(ctx context.Context, req CompletionRequest) (string, error)
}

// Provider is one external language-model backend in the fallback chain.
type Provider interface {
	// Name identifies the provider in logs and errors
	Name() string
	// Complete executes the request against the provider's API
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

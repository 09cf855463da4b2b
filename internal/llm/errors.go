package llm

import (
	"fmt"
	"strings"
)

// ProviderError represents a failure from a single provider attempt
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AllProvidersFailedError is raised when every provider in the chain failed.
// Callers substitute their task-specific fallback values on this error.
type AllProvidersFailedError struct {
	Attempts []*ProviderError
}

func (e *AllProvidersFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("all %d providers failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

package analysis

import "fmt"

// ValidationError represents missing required caller input. It is the only
// error the analyzer surfaces; everything else degrades to the fallback
// profile.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

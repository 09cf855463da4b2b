package interview

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError indicates the interview does not exist
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("interview not found: %s", e.ID)
}

// ValidationError represents invalid caller input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// StateError indicates the operation is not valid for the interview's or
// question's current state
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state: %s", e.Message)
}

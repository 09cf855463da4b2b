// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/questions"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrNotFound indicates a requested resource does not exist or is not
// visible to the caller
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps service errors to HTTP status codes
func HTTPStatus(err error) int {
	var (
		emailExists     *ErrEmailAlreadyExists
		invalidCreds    *ErrInvalidCredentials
		userNotFound    *ErrUserNotFound
		notFound        *ErrNotFound
		validation      *ErrValidation
		ivNotFound      *interview.NotFoundError
		ivValidation    *interview.ValidationError
		ivState         *interview.StateError
		resumeInvalid   *analysis.ValidationError
		questionInvalid *questions.ValidationError
		extraction      *ingestion.ExtractionError
	)

	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &notFound), errors.As(err, &ivNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &ivValidation),
		errors.As(err, &resumeInvalid), errors.As(err, &questionInvalid),
		errors.As(err, &extraction):
		return http.StatusBadRequest
	case errors.As(err, &ivState):
		return http.StatusConflict
	case errors.Is(err, db.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

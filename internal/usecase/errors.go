package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"skillmatch/internal/repository"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	// ErrDataAccess marks a backend failure the caller may retry.
	ErrDataAccess = errors.New("data access failure")
)

// ValidationError carries per-field messages and unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// classify maps a repository error onto the usecase taxonomy. Anything
// unrecognised is a data access failure.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrOwnership):
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrForbidden), errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation), errors.Is(err, ErrConflict), errors.Is(err, ErrDataAccess):
		return err
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrDataAccess, err)
	}
}

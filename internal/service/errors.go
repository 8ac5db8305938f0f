package service

import "errors"

// ErrNotFound is returned when no recipe has the requested id.
var ErrNotFound = errors.New("Recipe not found")

// ValidationError reports a request that is well formed but violates a recipe rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

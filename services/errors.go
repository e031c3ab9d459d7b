package services

import (
	"errors"
	"fmt"
)

// ValidationError marks a business-rule failure: recoverable, user-facing,
// and always accompanied by a rolled-back transaction. Anything else that
// escapes a service is treated as unexpected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a business-rule failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

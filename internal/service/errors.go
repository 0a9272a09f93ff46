package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrBadRequest reports a request missing mandatory fields.
	ErrBadRequest = errors.New("missing required fields")
)

// ValidationError reports a payload rejected before any write happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// fromValidator converts the first validator field error into a ValidationError.
func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Reason: "is required"}
	case "min", "max":
		return &ValidationError{Field: fe.Field(), Reason: "must be between 1 and 5"}
	default:
		return &ValidationError{Field: fe.Field(), Reason: strings.TrimSpace("failed " + fe.Tag())}
	}
}

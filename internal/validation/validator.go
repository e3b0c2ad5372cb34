// Package validation provides request body validation for Servium API DTOs.
// It wraps go-playground/validator and turns tag failures into field-level
// error maps suitable for 400 responses.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator validates request DTOs against their struct tags.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a ready-to-use Validator instance.
func New() *Validator {
	return &Validator{structValidator: validator.New()}
}

// Struct validates a DTO and returns a map of field name to human-readable
// message for every failed constraint. A nil map means the DTO is valid.
func (v *Validator) Struct(dto interface{}) (map[string]string, error) {
	err := v.structValidator.Struct(dto)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not a tag failure: the DTO itself was unusable.
		return nil, err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return fields, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

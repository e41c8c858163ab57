package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance; validator caches struct metadata per type.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks v against its `validate` struct tags and returns the
// first violation in a readable form.
func ValidateStruct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte", "min":
			return fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value())
		case "lte", "max":
			return fmt.Errorf("%s: must not exceed %s, got %v", field, param, e.Value())
		case "oneof":
			return fmt.Errorf("%s: %q is not one of [%s]", field, e.Value(), param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

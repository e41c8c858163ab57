package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// FieldError is one rejected configuration value.
type FieldError struct {
	Section string
	Field   string
	Reason  string
}

// Path is the dotted key the operator writes in a config file.
func (e *FieldError) Path() string {
	if e.Section == "" {
		return e.Field
	}
	return e.Section + "." + e.Field
}

func (e *FieldError) Error() string {
	return e.Path() + ": " + e.Reason
}

// ConfigValidator checks a configuration section with chained rules and
// reports every failure at once, so an operator fixes a file in one pass.
type ConfigValidator struct {
	section string
	errs    []error
}

// NewConfigValidator starts a validator whose errors are prefixed by section.
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{section: section}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) *ConfigValidator {
	cv.errs = append(cv.errs, &FieldError{
		Section: cv.section,
		Field:   field,
		Reason:  fmt.Sprintf(format, args...),
	})
	return cv
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if strings.TrimSpace(value) != "" {
		return cv
	}
	return cv.fail(field, "required field is empty")
}

// RangeInt rejects values outside [lo, hi].
func (cv *ConfigValidator) RangeInt(field string, value, lo, hi int) *ConfigValidator {
	if value >= lo && value <= hi {
		return cv
	}
	return cv.fail(field, "value %d is outside range [%d, %d]", value, lo, hi)
}

// Positive rejects zero and negative values.
func (cv *ConfigValidator) Positive(field string, value int64) *ConfigValidator {
	if value > 0 {
		return cv
	}
	return cv.fail(field, "value %d must be positive", value)
}

// RangeDuration rejects durations outside [lo, hi].
func (cv *ConfigValidator) RangeDuration(field string, value, lo, hi time.Duration) *ConfigValidator {
	if value >= lo && value <= hi {
		return cv
	}
	return cv.fail(field, "duration %v is outside range [%v, %v]", value, lo, hi)
}

// OneOf rejects values not listed in allowed.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	if slices.Contains(allowed, value) {
		return cv
	}
	return cv.fail(field, "value %q must be one of %s", value, strings.Join(allowed, ", "))
}

// When runs rules only if cond holds, for settings that depend on another.
func (cv *ConfigValidator) When(cond bool, rules func(*ConfigValidator)) *ConfigValidator {
	if cond {
		rules(cv)
	}
	return cv
}

// Errors returns the collected *FieldError values.
func (cv *ConfigValidator) Errors() []error {
	return cv.errs
}

// Validate returns nil, the single failure, or a summary naming every
// rejected key.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errs) {
	case 0:
		return nil
	case 1:
		return cv.errs[0]
	}
	msgs := make([]string, len(cv.errs))
	for i, err := range cv.errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("%s: %d errors: %s", cv.section, len(cv.errs), strings.Join(msgs, "; "))
}

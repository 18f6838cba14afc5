// Package validator wraps go-playground/validator with a lazily built
// singleton and a flattened error format. Field names in errors come from
// the `envconfig` tag when present so configuration failures name the
// environment variable to fix.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error of the chain returned by Validate
// when a struct breaks one or more rules.
var ErrValidationFailed = errors.New("struct validation failed")

var (
	validator     *gvalidator.Validate
	validatorOnce sync.Once
)

const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func instance() *gvalidator.Validate {
	validatorOnce.Do(func() {
		validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
		validator.RegisterTagNameFunc(fieldName)
	})

	return validator
}

func fieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("envconfig"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` tags.
func Validate(v any) error {
	if err := instance().Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

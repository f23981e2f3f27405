// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the shared custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// FieldErrors flattens a validation error into field/message pairs.
// Errors that are not validation errors yield nil.
func FieldErrors(err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Namespace(),
			Message: "failed on '" + fe.Tag() + "'",
		})
	}
	return out
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

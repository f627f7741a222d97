package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Validator checks request DTOs against their `validate` tags.
type Validator struct {
	v *validator.Validate
}

// New builds a validator that reports JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = f.Tag.Get("form")
		}
		if name == "" {
			name = f.Tag.Get("query")
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns a 400 DomainError listing every failed field.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return apperrors.FromValidation(err)
	}
	return nil
}

package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FromValidation maps validator failures to a 400 DomainError carrying one
// FieldError per failed constraint. Errors of any other type pass through.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return NewValidationError(details...)
}

// fieldPath drops the root struct name: "CreateEventRequest.links[0].url" -> "links[0].url".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "Ce champ est requis"
	case "email":
		return "Adresse email invalide"
	case "url", "http_url":
		return "URL invalide"
	case "uuid", "uuid4":
		return "Identifiant invalide"
	case "oneof":
		return fmt.Sprintf("Doit être l'une des valeurs : %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("Doit contenir au moins %s caractères", fe.Param())
		}
		return fmt.Sprintf("Doit être supérieur ou égal à %s", fe.Param())
	case "max":
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("Doit contenir au plus %s caractères", fe.Param())
		}
		return fmt.Sprintf("Doit être inférieur ou égal à %s", fe.Param())
	case "gtfield", "gtefield":
		return fmt.Sprintf("Doit être postérieur à %s", fe.Param())
	default:
		return "Valeur invalide"
	}
}

func isLengthKind(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map
}

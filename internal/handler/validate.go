package handler

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/forgo/wayfind/api/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs struct tag validation and converts failures to field
// errors for a 422 response. Returns nil when the struct is valid.
func validateStruct(v interface{}) []model.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs []model.FieldError
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			fieldErrs = append(fieldErrs, model.FieldError{
				Field:   strings.ToLower(ve.Field()),
				Message: tagMessage(ve),
			})
		}
		return fieldErrs
	}

	return []model.FieldError{{Field: "request", Message: "invalid request"}}
}

// tagMessage renders a readable message for a failed validation tag
func tagMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", ve.Param())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

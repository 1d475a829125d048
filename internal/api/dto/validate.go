package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks req against its struct tags. Missing fields produce
// requiredMessage; other failures name the offending fields.
func Validate(req any, requiredMessage string) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError(err)
	}

	details := make(map[string]any, len(fieldErrs))
	missing := false
	invalid := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
		if fe.Tag() == "required" {
			missing = true
			continue
		}
		invalid = append(invalid, fe.Field())
	}
	if missing {
		return apperrors.NewValidationError(requiredMessage, details)
	}
	return apperrors.NewValidationError("invalid "+strings.Join(invalid, ", "), details)
}

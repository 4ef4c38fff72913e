package dto

import (
	"errors"
	"strings"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// validate mirrors gin's binding rules so services can re-check requests
// that did not come through a handler.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	RegisterValidations(v)
	return v
}

// RegisterValidations installs the custom tags used by the request types.
// main calls it on gin's validator engine as well.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("entrystatus", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseEntryStatus(fl.Field().String())
		return err == nil
	})
}

// Validate checks a request struct and reports the first failing field as a validation error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewValidationFailedError(lowerFirst(fe.Field()), "failed on '"+fe.Tag()+"'")
	}
	return apperrors.NewValidationFailedError("", err.Error())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

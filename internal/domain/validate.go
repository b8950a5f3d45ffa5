package domain

import (
	"errors"
	"strings"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate проверяет запрос по тегам validate и возвращает *e.ValidationError на первой ошибке.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return e.NewValidationError("", err.Error(), e.ErrStatusBadRequest)
	}

	fe := fieldErrs[0]
	field := lowerFirst(fe.Field())
	switch {
	case fe.Field() == "Price":
		return e.NewValidationError(field, "must be greater than 0", e.ErrPriceMustBePositive)
	case fe.Field() == "Name" && fe.Tag() == "required", fe.Field() == "Name" && fe.Tag() == "min":
		return e.NewValidationError(field, "is required", e.ErrProductNameRequired)
	case fe.Tag() == "email":
		return e.NewValidationError(field, "invalid email", e.ErrInvalidEmail)
	case fe.Tag() == "required":
		return e.NewValidationError(field, "is required", e.ErrStatusBadRequest)
	default:
		return e.NewValidationError(field, "failed on '"+fe.Tag()+"'", e.ErrStatusBadRequest)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

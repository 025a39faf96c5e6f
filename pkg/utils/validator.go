package utils

import (
	"github.com/go-playground/validator/v10"

	apperrors "maintenance-system/pkg/errors"
)

// CustomValidator — обёртка для echo.Validator поверх validator/v10.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.NewValidationError("ошибка валидации входных данных: %v", err)
	}
	return nil
}

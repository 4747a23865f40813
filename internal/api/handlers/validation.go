package handlers

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"storagemarket/web/internal/models"
)

// ValidationErrorDetail describes one rejected form field.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding rules to gin's validator.
// It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterTagNameFunc(formFieldName)
		if err := v.RegisterValidation("unit_type", validUnitType); err != nil {
			registerErr = err
			return
		}
		if err := v.RegisterValidation("nonnegative", nonNegativeNumber); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("nonnegative_int", nonNegativeInt)
	})
	return registerErr
}

func formFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func validUnitType(fl validator.FieldLevel) bool {
	return models.IsValidUnitType(fl.Field().String())
}

// nonNegativeNumber accepts decimal strings that parse to a finite value >= 0.
func nonNegativeNumber(fl validator.FieldLevel) bool {
	n, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	if err != nil {
		return false
	}
	return n >= 0 && n <= maxFormNumber
}

const maxFormNumber = 1e15

// nonNegativeInt accepts whole numbers from 0 up to the range of the size column.
func nonNegativeInt(fl validator.FieldLevel) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 32)
	return err == nil && n >= 0
}

// formatValidationErrors converts validator errors into a client-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []ValidationErrorDetail {
	details := make([]ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "unit_type":
			message = fmt.Sprintf("Field '%s' must be one of the listed unit types", err.Field())
		case "nonnegative":
			message = fmt.Sprintf("Field '%s' must be a number of at least 0", err.Field())
		case "nonnegative_int":
			message = fmt.Sprintf("Field '%s' must be a whole number of at least 0", err.Field())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clubhub/ads-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON/form names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	validate.RegisterValidation("date", validateDate)
	validate.RegisterValidation("ad_type", validateAdType)
	validate.RegisterValidation("ad_status", validateAdStatus)
	validate.RegisterValidation("payment_method", validatePaymentMethod)
	validate.RegisterValidation("payment_status", validatePaymentStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func validateAdType(fl validator.FieldLevel) bool {
	return models.AdType(fl.Field().String()).Valid()
}

func validateAdStatus(fl validator.FieldLevel) bool {
	return models.AdStatus(fl.Field().String()).Valid()
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return models.PaymentMethod(fl.Field().String()).Valid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return models.PaymentStatus(fl.Field().String()).Valid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_without":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "date":
		return e.Field() + " must be a date in YYYY-MM-DD format"
	case "ad_type":
		return "ad_type must be one of APP_BANNER, WEBSITE_BANNER, CLUB_LISTING"
	case "ad_status":
		return "status must be one of DRAFT, PENDING_APPROVAL, APPROVED, ACTIVE, EXPIRED, REJECTED"
	case "payment_method":
		return "payment_method must be CARD or CASH"
	case "payment_status":
		return "payment_status must be PENDING or PAID"
	default:
		return e.Field() + " is invalid"
	}
}

package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/qalam-academy/tutor_api/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("grade", validateGrade)
	validate.RegisterValidation("phone", validatePhone)
}

func GetValidator() *validator.Validate {
	return validate
}

func validateGrade(fl validator.FieldLevel) bool {
	return model.IsValidGrade(fl.Field().String())
}

var phoneRegex = regexp.MustCompile(`^0?1[0-9]{9,10}$`)

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param() + " characters"
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param() + " characters"
			case "numeric":
				message = fieldError.Field() + " must contain only numbers"
			case "grade":
				message = fieldError.Field() + " must be a valid grade"
			case "phone":
				message = fieldError.Field() + " must be a valid phone number"
			case "gt":
				message = fieldError.Field() + " must be greater than " + fieldError.Param()
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

type Validator interface {
	Validate() error
}

func CreateValidationErrorResponse(err error) ValidationErrorResponse {
	return ValidationErrorResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  FormatValidationErrors(err),
	}
}

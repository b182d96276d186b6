/**
 * @description
 * Request payload validation built on go-playground/validator. Struct tags on
 * the DTOs drive the rules; this file turns validator failures into
 * field-level messages the web client can render next to form inputs.
 *
 * @dependencies
 * - github.com/go-playground/validator/v10: Struct tag validation.
 */

package api

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type badRequestResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details"`
}

// ValidateRequest checks a decoded payload against its struct tags and
// returns one entry per failing field, or nil when the payload is valid.
func ValidateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var validationErrors []ValidationError
	for _, fieldErr := range err.(validator.ValidationErrors) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: validationMessage(fieldErr),
			Type:    fieldErr.Tag(),
		})
	}
	return validationErrors
}

func validationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "len":
		return "Value must be exactly " + err.Param() + " characters"
	case "numeric":
		return "Value must contain only digits"
	case "gt":
		return "Value must be greater than " + err.Param()
	default:
		return "Invalid value"
	}
}

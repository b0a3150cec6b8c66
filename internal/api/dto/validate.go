package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct's validation tags and reports failures as a
// ValidationFailed error carrying per-field messages.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.NewBadRequest("invalid payload")
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[strings.ToLower(fieldErr.Field())] = fieldMessage(fieldErr)
	}
	return apperrors.NewValidationFailed(fields)
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	default:
		return "is invalid"
	}
}

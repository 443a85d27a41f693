package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/silent2803/NurtiDuo/internal/models"

	"github.com/go-playground/validator/v10"
)

// Registration is the sign-up form as submitted by the presentation layer.
type Registration struct {
	Username        string        `json:"username" validate:"required"`
	Email           string        `json:"email" validate:"required,email"`
	Password        string        `json:"password" validate:"required"`
	ConfirmPassword string        `json:"confirm_password" validate:"required,eqfield=Password"`
	Gender          models.Gender `json:"gender" validate:"required,oneof=male female other"`
	BirthDate       string        `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Bio             string        `json:"bio"`
}

const minRegistrationAge = 13

// Shared across validations; a validator instance caches struct metadata.
var validate = validator.New()

// ValidateRegistration checks the form locally and converts it into the
// sign-up payload. Age is derived as current year minus birth year and the
// derived value is what gets denormalized onto the profile.
func ValidateRegistration(form Registration, now time.Time) (models.SignUpInput, error) {
	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return models.SignUpInput{}, &models.ValidationError{Reason: formatFieldError(fieldErrs[0])}
		}
		return models.SignUpInput{}, &models.ValidationError{Reason: "invalid registration form"}
	}

	birthDate, err := time.Parse("2006-01-02", form.BirthDate)
	if err != nil {
		return models.SignUpInput{}, &models.ValidationError{Reason: "birth date must be a valid date"}
	}

	age := now.Year() - birthDate.Year()
	if age < minRegistrationAge {
		return models.SignUpInput{}, &models.ValidationError{
			Reason: fmt.Sprintf("you must be at least %d years old to register", minRegistrationAge),
		}
	}

	return models.SignUpInput{
		Email:     form.Email,
		Password:  form.Password,
		Username:  form.Username,
		Gender:    form.Gender,
		BirthDate: birthDate,
		Bio:       form.Bio,
		Age:       age,
	}, nil
}

// formatFieldError converts a validator error to a user-facing message
func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "email must be a valid address"
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return "birth date must be a valid date"
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

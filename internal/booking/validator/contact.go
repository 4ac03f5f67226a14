package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bookingflow/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// First returns the message of the first error, for single-line rendering.
func (v ValidationErrors) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

// ContactForm is what the visitor types on the booking form.
type ContactForm struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,max=254,contains=@"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type ContactValidator struct {
	validate      *validator.Validate
	defaultRegion string
}

func NewContactValidator(defaultRegion string) *ContactValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &ContactValidator{
		validate:      v,
		defaultRegion: defaultRegion,
	}
}

// Normalize returns form with whitespace collapsed, the email domain lowercased
// and the phone in E.164 when it parses.
func (v *ContactValidator) Normalize(form ContactForm) ContactForm {
	c := sanitizer.SanitizeContact(sanitizer.Contact{
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
	}, v.defaultRegion)
	return ContactForm{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

// Validate checks an already normalized form. The email rule is deliberately
// loose: the backend owns real address validation.
func (v *ContactValidator) Validate(form ContactForm) error {
	if err := v.validate.Struct(form); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: messageFor(err),
		})
	}

	return validationErrors
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("Please enter your %s", err.Field())
	case "contains":
		return "Please enter a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

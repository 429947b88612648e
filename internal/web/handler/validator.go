package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/db/models"
)

type (
	// ErrorResponse describes one failed field of a request body.
	ErrorResponse struct {
		Field   string `json:"field"`
		Tag     string `json:"tag"`
		Param   string `json:"param,omitempty"`
		Message string `json:"message"`
	}

	// ValidationError is returned by Bind when the body cannot be parsed or fails validation.
	ValidationError struct {
		Message string          `json:"message"`
		Errors  []ErrorResponse `json:"errors"`
	}

	// XValidator validates request bodies and reports fields by their json name.
	XValidator struct {
		validator *validator.Validate
	}
)

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Message)
	}

	return e.Message + ": " + strings.Join(parts, ", ")
}

// NewValidator returns a validator reporting json field names.
func NewValidator() *XValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	// empty values are left to required
	_ = v.RegisterValidation("appstatus", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()

		return status == "" || models.ApplicationStatus(status).Valid()
	})

	return &XValidator{validator: v}
}

// Validate performs validation on the provided data and returns a slice of ErrorResponse.
func (v *XValidator) Validate(data any) []ErrorResponse {
	var validationErrors []ErrorResponse

	err := v.validator.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []ErrorResponse{{Message: err.Error()}}
	}

	for _, fe := range errs {
		validationErrors = append(validationErrors, ErrorResponse{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: describe(fe),
		})
	}

	return validationErrors
}

// Bind parses the request body into out and validates it.
func (v *XValidator) Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &ValidationError{
			Message: "Invalid request body.",
			Errors:  []ErrorResponse{{Tag: "body", Message: err.Error()}},
		}
	}

	if errs := v.Validate(out); len(errs) > 0 {
		return &ValidationError{Message: "Validation failed.", Errors: errs}
	}

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", fe.Field(), fe.Param())
	case "appstatus":
		return fmt.Sprintf("%q must be a known application status", fe.Field())
	case "max":
		return fmt.Sprintf("%q must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q failed on %q", fe.Field(), fe.Tag())
	}
}

package httputil

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shiftboard/shiftboard-backend/pkg/errors"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so details keys match the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate validates a struct using go-playground/validator
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.BadRequest(err.Error())
	}

	details := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		details[e.Field()] = formatValidationError(e)
	}
	return errors.Validation(details)
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "datetime":
		if e.Param() == "2006-01-02" {
			return "must be a date in YYYY-MM-DD form"
		}
		return "must match " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "max":
		return "must be at most " + e.Param() + " characters"
	default:
		return "invalid value"
	}
}

// RegisterCustomValidation registers a custom validation function
func RegisterCustomValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

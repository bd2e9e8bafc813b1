package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// selfValidating requests add cross-field and decimal rules on top of
// their struct tags.
type selfValidating interface {
	Validate() map[string]string
}

// NewValidator returns a validator that reports fields by their JSON (or
// query) name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	return v
}

// FormatValidationErrors turns validator errors into field -> message pairs.
func FormatValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorsMap["error"] = "Invalid validation error type"
		return errorsMap
	}
	for _, fe := range validationErrors {
		fieldName := fe.Field()
		switch fe.Tag() {
		case "required":
			errorsMap[fieldName] = "This field is required."
		case "email":
			errorsMap[fieldName] = "Enter a valid email address."
		case "url":
			errorsMap[fieldName] = "Enter a valid URL."
		case "oneof":
			errorsMap[fieldName] = fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
		case "datetime":
			errorsMap[fieldName] = fmt.Sprintf("Date has wrong format. Use %s.", fe.Param())
		case "gt":
			errorsMap[fieldName] = fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
		case "min":
			errorsMap[fieldName] = minMaxMessage(fe, "greater than or equal to", "at least")
		case "max":
			errorsMap[fieldName] = minMaxMessage(fe, "less than or equal to", "no more than")
		default:
			errorsMap[fieldName] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fieldName, fe.Tag())
		}
	}
	return errorsMap
}

func minMaxMessage(fe validator.FieldError, numeric, length string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("Ensure this field has %s %s characters.", length, fe.Param())
	case reflect.Slice, reflect.Map:
		return fmt.Sprintf("Ensure this list has %s %s items.", length, fe.Param())
	default:
		return fmt.Sprintf("Ensure this value is %s %s.", numeric, fe.Param())
	}
}

// validateRequest runs the struct tags and the request's own rules and
// reports all problems together.
func validateRequest(v *validator.Validate, req any) error {
	fields := map[string]string{}
	if err := v.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for k, msg := range FormatValidationErrors(ve) {
			fields[k] = msg
		}
	}
	if sv, ok := req.(selfValidating); ok {
		for k, msg := range sv.Validate() {
			if _, exists := fields[k]; !exists {
				fields[k] = msg
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their configuration key.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the ranges of the server settings.
func (s *ServerConfiguration) Validate() error {
	if s == nil {
		return nil
	}
	result := &SchemaValidationResult{}
	convertValidatorErrors(validate.Struct(s), "server", result)
	return result.Err()
}

// Validate checks the value ranges of the whole document. Structural rules
// across fields (exclusive modes, identities) are checked after conversion
// by mock.Config.Validate.
func (f *File) Validate() error {
	result := &SchemaValidationResult{}
	convertValidatorErrors(validate.Struct(f), "", result)
	return result.Err()
}

// convertValidatorErrors adds the field errors in err to result. Paths are
// rooted at prefix instead of the validated struct's type name.
func convertValidatorErrors(err error, prefix string, result *SchemaValidationResult) {
	if err == nil {
		return
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		result.AddError(prefix, err.Error())
		return
	}
	for _, e := range validatorErrs {
		path := e.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		} else {
			path = ""
		}
		if prefix != "" {
			path = strings.TrimSuffix(prefix+"."+path, ".")
		}
		result.AddError(path, getValidationMessage(e))
	}
}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s element(s)", e.Param())
		}
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostname_rfc1123|ip":
		return "must be a host name or an IP address"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

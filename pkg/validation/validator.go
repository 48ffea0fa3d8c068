package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding: JSON tag
// names in error output plus aliases for common auth validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=8")
	}
}

// ToDetails converts binding errors into a field->message map suitable
// for the API error envelope.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "min", "pwd":
		if p := fe.Param(); p != "" {
			return "must be at least " + p + " characters long"
		}
		return "min length 8"
	case "max":
		if p := fe.Param(); p != "" {
			return "must be at most " + p + " characters long"
		}
		return "too large"
	default:
		if p := fe.Param(); p != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), p)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}

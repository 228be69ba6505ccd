package validator

import (
	"errors"
	"reflect"
	"strings"

	"taskmanager/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrValidation is the code carried by every request validation failure.
var ErrValidation = apperr.BadRequest("VALIDATION_ERROR", "Validation failed")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks v against its `validate` tags. It returns nil when v is
// valid and a VALIDATION_ERROR listing every offending field otherwise.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return ErrValidation.WithFields(fields...)
}

// ValidID reports whether id is a well-formed resource identifier.
func ValidID(id string) bool {
	return validate.Var(id, "required,uuid") == nil
}

// InvalidID builds the error returned for a malformed path identifier.
func InvalidID(field, value string) error {
	return ErrValidation.WithFields(apperr.FieldError{
		Field:   field,
		Message: "must be a valid identifier",
		Value:   value,
	})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uuid":
		return "must be a valid identifier"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// ErrMalformedBody is returned when the request body is not valid JSON for
// the target type.
var ErrMalformedBody = apperr.BadRequest("VALIDATION_ERROR", "Invalid request body")

// BindJSON decodes the request body into v and validates it.
func BindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return ErrMalformedBody
	}
	return Validate(v)
}

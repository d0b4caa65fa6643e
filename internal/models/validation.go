package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"lolitems/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("stat", func(fl validator.FieldLevel) bool {
		return Stat(fl.Field().String()).Valid()
	})
	// bcrypt rejects input longer than MaxPasswordBytes; "max" counts runes.
	_ = v.RegisterValidation("pwbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	return v
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Validate checks s against its validate tags and reports failures as an
// *apperror.ValidationError keyed by json field name.
func Validate(s any) error {
	return validateStruct(s)
}

// ValidateItem checks every Item invariant, including sell_price < price.
func ValidateItem(item Item) error {
	return validateStruct(item)
}

// ValidateUserInput checks a registration payload.
func ValidateUserInput(in UserInput) error {
	return validateStruct(in)
}

// ValidateUserUpdate checks a replacement payload.
func ValidateUserUpdate(in UserUpdate) error {
	return validateStruct(in)
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidationError(map[string]string{"body": err.Error()})
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e)] = message(e)
	}
	return apperror.NewValidationError(fields)
}

// fieldPath drops the top-level struct name: "Item.stats[Foo]" -> "stats[Foo]".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "ltfield":
		return "must be less than price"
	case "pwbytes":
		return fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes)
	case "stat":
		return fmt.Sprintf("unknown stat %q", e.Value())
	default:
		return fmt.Sprintf("failed on the '%s' tag", e.Tag())
	}
}

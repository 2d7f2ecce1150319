package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/cse341/records-api/internal/core/domain"
)

// emailShape is the simple local@domain.tld check applied to user emails.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in errors use the json tag, dotted for nested structs.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Presence failures are
// reported together as missing fields; otherwise the first format failure wins.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var missing []string
	var format *domain.ValidationError
	for _, fe := range ve {
		field := fieldPath(fe)
		switch fe.Tag() {
		case "required", "notblank":
			missing = append(missing, field)
		default:
			if format == nil {
				format = &domain.ValidationError{Message: fieldError(fe), Fields: []string{field}}
			}
		}
	}
	if len(missing) > 0 {
		return domain.NewMissingFieldsError(missing)
	}
	return format
}

// fieldPath drops the root struct name from the namespace:
// "dataRequest.metadata.author" becomes "metadata.author".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// fieldError converts a single format failure into a human-readable message.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "emailshape":
		return "Invalid email format"
	case "gte":
		return fe.Field() + " must be a non-negative number"
	default:
		return fe.Field() + " is invalid"
	}
}

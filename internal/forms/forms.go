// Package forms validates operator input before it is sent anywhere, using
// the same validator stack on both the CLI and the mock backend.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their json tag so error messages match the
// wire names operators see.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Check validates a tagged struct and flattens field errors into one
// human-readable message.
func Check(i any) error {
	if err := validate.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// RegisterForm is the sign-up input.
type RegisterForm struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginForm is the sign-in input.
type LoginForm struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CarForm is the inventory editor input.
type CarForm struct {
	Name    string `validate:"required"`
	Brand   string `validate:"required"`
	Details string
	Seats   int `validate:"gte=0"`
}

// ContentForm is the content-block editor input.
type ContentForm struct {
	Key   string `json:"key"   validate:"required"`
	Title string `json:"title"`
}

// RoleForm is the role management input.
type RoleForm struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// BookingStatusForm is the booking status control input.
type BookingStatusForm struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// ChangePasswordForm rotates a password.
type ChangePasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

package dto

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/userhub/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json field names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
	_ = validate.RegisterValidation("username_format", validateUsernameFormat)
}

// validatePasswordStrength requires at least one uppercase letter, one
// lowercase letter and one digit.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	hasUpper := false
	hasLower := false
	hasNumber := false
	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
		if unicode.IsNumber(char) {
			hasNumber = true
		}
		if hasUpper && hasLower && hasNumber {
			return true
		}
	}
	return hasUpper && hasLower && hasNumber
}

// validateUsernameFormat allows letters, digits and underscores only.
func validateUsernameFormat(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if len(username) == 0 {
		return false
	}
	for _, char := range username {
		if !unicode.IsLetter(char) && !unicode.IsNumber(char) && char != '_' {
			return false
		}
	}
	return true
}

// validateStruct runs the shared validator over req and converts failures
// into domain errors.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ErrInvalidField("body", err.Error())
	}

	// Report the first failure; clients fix one field at a time anyway.
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "password_strength":
		return domain.ErrWeakPassword("must contain at least one uppercase letter, one lowercase letter, and one number")
	case "min":
		if field == "password" || field == "new_password" {
			return domain.ErrWeakPassword(fmt.Sprintf("min length %s", fe.Param()))
		}
		return domain.ErrInvalidField(field, fmt.Sprintf("must be at least %s characters", fe.Param()))
	case "max":
		return domain.ErrInvalidField(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	case "username_format":
		return domain.ErrInvalidField(field, "can only contain letters, numbers, and underscores")
	case "gte", "lte":
		return domain.ErrInvalidField(field, fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param()))
	default:
		return domain.ErrInvalidField(field, "invalid value")
	}
}

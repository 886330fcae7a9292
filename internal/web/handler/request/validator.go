// Package request parses and validates JSON request bodies.
package request

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/authstarter/go-auth-starter/internal/web/response"
)

// MsgInvalidData is the message of every validation failure, details are in errors.
const MsgInvalidData = "The given data was invalid."

// XValidator wraps a validator with the custom rules of the API.
type XValidator struct {
	validate *validator.Validate
}

// Validator is the shared instance, validator.Validate caches struct metadata and is safe for concurrent use.
var Validator = NewValidator() //nolint:gochecknoglobals

// NewValidator creates a validator reporting fields by their json name.
//
// Custom tags:
//   - strongpassword: letters in upper and lower case, a number and a symbol
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

	if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
		panic(err)
	}

	return &XValidator{validate: v}
}

// Validate returns the messages per field, nil if data is valid.
func (x *XValidator) Validate(data any) response.Fields {
	err := x.validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return response.Fields{"_": {err.Error()}}
	}

	out := response.Fields{}

	for _, fe := range errs {
		out[fe.Field()] = append(out[fe.Field()], fieldError(fe))
	}

	return out
}

// Parse decodes the JSON body into out and validates it.
// The returned error is a *response.Error ready for the error handler.
func Parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &response.Error{
			Kind:    response.KindValidation,
			Message: MsgInvalidData,
			Fields:  response.Fields{"body": {"The request body must be valid JSON."}},
			Err:     err,
		}
	}

	if fields := Validator.Validate(out); fields != nil {
		return &response.Error{Kind: response.KindValidation, Message: MsgInvalidData, Fields: fields}
	}

	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s may not have more than %s items.", field, fe.Param())
		}

		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s must have at least %s items.", field, fe.Param())
		}

		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s does not match.", field)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "strongpassword":
		return fmt.Sprintf("The %s must contain upper and lower case letters, a number and a symbol.", field)
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

func strongPassword(fl validator.FieldLevel) bool {
	var upper, lower, number, symbol bool

	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			symbol = true
		}
	}

	return upper && lower && number && symbol
}

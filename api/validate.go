package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/alriefqyd/gemba-api/errs"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report failures by json field name so error messages match the wire
	// format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateInput runs struct validation on a decoded request payload and
// converts the first failure into a field-level ApiErr.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		field := first.Field()
		switch first.Tag() {
		case "required":
			return errs.NewMissingRequiredFieldError(field)
		default:
			return errs.NewInvalidFieldError(field, first.Tag())
		}
	}

	return errs.NewBadRequestError("invalid request payload")
}

package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/claimwise/internal/lifecycle"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

var validationMessages = map[string]string{
	"required": "required",
	"numeric":  "must be a number",
	"gte":      "must not be negative",
}

// validateRequest checks a request message against its validate tags and reports
// the first failing field as a lifecycle.ValidationError.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &lifecycle.ValidationError{Field: "request", Reason: err.Error()}
	}
	first := verrs[0]
	reason, ok := validationMessages[first.Tag()]
	if !ok {
		reason = "is invalid"
	}
	return &lifecycle.ValidationError{Field: first.Field(), Reason: reason}
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, &lifecycle.ValidationError{Field: field, Reason: "must be a decimal number"}
	}
	return d, nil
}

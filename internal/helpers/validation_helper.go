package helpers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator reports fields by their json names and compares decimals
// numerically so tags like gt=0 apply to amounts.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidationError turns validator output into an InvalidArgument error
// naming the first offending field.
func ValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return apperr.Wrap(apperr.InvalidArgument, "Invalid input. Please check your fields.", err)
	}

	fe := errs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fe.Field() + " is required"
	case "gt":
		msg = fe.Field() + " must be greater than " + fe.Param()
	case "oneof":
		msg = fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		msg = fe.Field() + " is invalid"
	}
	return apperr.Wrap(apperr.InvalidArgument, msg, err)
}


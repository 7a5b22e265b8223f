package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names so errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("distance", func(fl validator.FieldLevel) bool {
		return Distance(fl.Field().String()).Valid()
	})

	return v
}

// validateStruct runs struct tag validation and maps the first failure to a sentinel error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "distance":
		return fmt.Errorf("%w: %v", ErrInvalidDistance, fe.Value())
	case "notblank":
		return ErrInvalidName
	case "uuid", "required":
		if fe.Field() == "raceId" {
			return fmt.Errorf("%w: raceId", ErrInvalidID)
		}
	}

	return fmt.Errorf("%w: %s failed %q validation", ErrInvalidRequest, fe.Field(), fe.Tag())
}

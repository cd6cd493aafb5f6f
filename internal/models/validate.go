package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their column names so errors line up with the stored layout.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks an entity's required and bounded fields before it is written.
// Violations are returned as CONSTRAINT_VIOLATION errors.
func Validate(entity string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError(err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return NewConstraintError(ConstraintRequired, fmt.Sprintf("%s.%s is required", entity, fe.Field()), err)
	case "max":
		return NewConstraintError(ConstraintLength, fmt.Sprintf("%s.%s exceeds %s characters", entity, fe.Field(), fe.Param()), err)
	default:
		return NewValidationError(fmt.Sprintf("%s.%s failed %q validation", entity, fe.Field(), fe.Tag()))
	}
}

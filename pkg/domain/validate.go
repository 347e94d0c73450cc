package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

type enumValue interface{ Valid() bool }

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("enum", validateEnum)
		validate = v
	})
	return validate
}

func validateEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(enumValue)
	if !ok {
		return false
	}
	return e.Valid()
}

// Validate checks the struct tags of a record and reports the first offending
// field as a ValidationError for the given entity.
func Validate(entity EntityType, record any) error {
	err := validatorInstance().Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError{Entity: entity, Reason: err.Error()}
	}
	fe := fieldErrs[0]
	return ValidationError{Entity: entity, Field: fe.Field(), Reason: describeTag(fe)}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "enum":
		return fmt.Sprintf("unknown value %q", fmt.Sprint(fe.Value()))
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

// Validate checks fields against the record rules: title, author and genre
// are required, the year lies between 1000 and the current year, the status
// is Available or Issued, and a cover image, when set, is a URL. The error is
// a validation *Error listing the offending JSON field names.
func (f Fields) Validate() error {
	return checkFields("validate", "", f.Normalize())
}

func checkFields(op string, id ID, fields Fields) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return validationError(op, id, nil, err)
	}
	names := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		names = append(names, fe.Field())
	}
	sort.Strings(names)
	return validationError(op, id, names, fmt.Errorf("%s", describe(invalid[0])))
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(time.Now().Year())
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "notfuture":
		return fmt.Sprintf("%s cannot be in the future", field)
	case "status":
		return fmt.Sprintf("%s must be %s or %s", field, StatusAvailable, StatusIssued)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

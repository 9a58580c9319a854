// Package validx wraps go-playground/validator with the tag conventions used
// by request and service input structs.
package validx

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aussiebroadwan/castrack/pkg/idx"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors use the
// json tag so they match what clients sent.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
			return idx.Valid(fl.Field().String())
		})
	})
	return validate
}

// ValidationErrors maps a field name to a short problem description.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(v.Details(), "; ")
}

// Details renders the errors as sorted "field: problem" strings.
func (v ValidationErrors) Details() []string {
	out := make([]string, 0, len(v))
	for field, msg := range v {
		out = append(out, field+": "+msg)
	}
	sort.Strings(out)
	return out
}

// ValidateStruct runs `validate` tags on s.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldPath(fe)] = describe(fe)
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

// Add records a problem found outside struct tags.
func (v ValidationErrors) Add(field, msg string) {
	v[field] = msg
}

// Err returns v as an error, or nil when it is empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Merge runs ValidateStruct on s and folds extra problems into the result.
func Merge(s any, extra ValidationErrors) error {
	err := ValidateStruct(s)
	if err == nil {
		return extra.Err()
	}

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for k, v := range extra {
		if _, ok := verrs[k]; !ok {
			verrs[k] = v
		}
	}
	return verrs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must have at least " + fe.Param()
	case "max":
		return "must have at most " + fe.Param()
	case "ulid":
		return "must be a valid id"
	case "unique":
		return "must not contain duplicates"
	case "gtfield":
		return "must be after " + fe.Param()
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

// Package validation binds request bodies through gin's validator and turns
// every failure into one aggregate 400 carrying a message per field.
package validation

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
)

const (
	bodyField      = "body"
	wholeNumberTag = "wholenumber"
)

var registerOnce sync.Once

// Setup makes validator report json field names. Safe to call repeatedly.
func Setup() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(wholeNumberTag, isWholeNumber)
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// BindJSON decodes the request body into obj and validates it. The returned
// error is nil or a validation *AppError.
func BindJSON(c *gin.Context, obj interface{}) error {
	Setup()
	if err := c.ShouldBindJSON(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Struct validates an already-populated value with the same rules.
func Struct(obj interface{}) error {
	Setup()
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts decoder and validator errors into field errors.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case stdErrors.As(err, &verrs):
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{
				Field:   fe.Field(),
				Message: message(fe),
			})
		}
		return apperrors.Validation(fields).Wrap(err)
	case stdErrors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = bodyField
		}
		return apperrors.Validation([]apperrors.FieldError{{
			Field:   field,
			Message: "must be " + describeKind(typeErr.Type.Kind()),
		}}).Wrap(err)
	case stdErrors.As(err, &syntaxErr), stdErrors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.Validation([]apperrors.FieldError{{
			Field:   bodyField,
			Message: "must be valid JSON",
		}}).Wrap(err)
	case stdErrors.Is(err, io.EOF):
		return apperrors.Validation([]apperrors.FieldError{{
			Field:   bodyField,
			Message: "is required",
		}}).Wrap(err)
	}

	return apperrors.Validation([]apperrors.FieldError{{
		Field:   bodyField,
		Message: "is invalid",
	}}).Wrap(err)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case wholeNumberTag:
		return "must be an integer"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		if isString(fe.Kind()) {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString(fe.Kind()) {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}

// isWholeNumber accepts integers and floats without a fractional part, so
// 3.0 passes where 3.5 does not.
func isWholeNumber(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isString(k reflect.Kind) bool {
	return k == reflect.String
}

func describeKind(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	}
	return "an object"
}

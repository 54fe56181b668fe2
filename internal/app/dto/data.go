package dto

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/exception"
)

var (
	Validate = validator.New()
	trans    ut.Translator

	iataPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

const ValidationErrorCode = "validation_error"

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error"`
	Code    string                `json:"code,omitempty"`
	Details []exception.Violation `json:"details,omitempty"`
	Data    any                   `json:"data,omitempty"`
}

// Response wraps successful payloads.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func NewResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func InitValidator() error {
	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	err := enTranslations.RegisterDefaultTranslations(Validate, trans)
	if err != nil {
		return err
	}

	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := Validate.RegisterValidation("iata", func(fl validator.FieldLevel) bool {
		return iataPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	return Validate.RegisterTranslation("iata", trans,
		func(ut ut.Translator) error {
			return ut.Add("iata", "{0} must be a 3-letter IATA code", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("iata", fe.Field())
			return msg
		},
	)
}

// ValidateFields runs the struct validator and returns every failure as a field violation.
func ValidateFields(req interface{}) ([]exception.Violation, error) {
	err := Validate.Struct(req)
	if err == nil {
		return nil, nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}

	violations := make([]exception.Violation, 0, len(ve))
	for _, fe := range ve {
		violations = append(violations, exception.Violation{
			Field:   fieldPath(fe.Namespace()),
			Message: fe.Translate(trans),
		})
	}

	return violations, nil
}

// ValidationError turns violations into a 400 application error, or nil when there are none.
func ValidationError(violations []exception.Violation) error {
	if len(violations) == 0 {
		return nil
	}

	return exception.ApplicationError{
		StatusCode: http.StatusBadRequest,
		Code:       ValidationErrorCode,
		Message:    violations[0].Message,
		Violations: violations,
	}
}

func validateStruct(req interface{}) error {
	violations, err := ValidateFields(req)
	if err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Code:       ValidationErrorCode,
			Message:    err.Error(),
			Cause:      err,
		}
	}

	return ValidationError(violations)
}

// fieldPath drops the root struct name, "SearchParams.passengers.adults" becomes "passengers.adults".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}

	return namespace
}

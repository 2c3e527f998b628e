// Package validation holds the validation error taxonomy shared by the stores and
// a singleton go-playground validator for request and draft structs.
//
// Every validation failure is raised before a mutation starts, so a caller that gets
// an *Error back can rely on the store being unchanged.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/superleo/marketingops/backend/internal/games"
)

// Code classifies a validation failure.
type Code string

const (
	CodeInvalidField               Code = "VALIDATION_ERROR"
	CodeMissingCreatives           Code = "MISSING_CREATIVES"
	CodeInvalidBatchSelection      Code = "INVALID_BATCH_SELECTION"
	CodeInvalidChallengerSelection Code = "INVALID_CHALLENGER_SELECTION"
)

// Error is a validation failure. Two errors match under errors.Is when their codes match,
// so callers compare against the sentinels below regardless of the message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrMissingCreatives           = &Error{Code: CodeMissingCreatives, Message: "at least one creative is required"}
	ErrInvalidBatchSelection      = &Error{Code: CodeInvalidBatchSelection, Message: "selection does not satisfy the operation preconditions"}
	ErrInvalidChallengerSelection = &Error{Code: CodeInvalidChallengerSelection, Message: "an A/B test needs between 1 and 3 challenger images"}
)

// New returns an error of the given code with a specific message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance, registering the custom "game" tag once.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("game", func(fl validator.FieldLevel) bool {
			return games.Valid(games.Name(fl.Field().String()))
		})
	})
	return validate
}

// Struct validates s and converts the first failing field into an *Error with CodeInvalidField.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Code: CodeInvalidField, Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &Error{Code: CodeInvalidField, Field: fe.Field(), Message: translate(fe)}
}

var messageWithParam = map[string]string{
	"oneof": "must be one of: %s",
	"gte":   "must be greater than or equal to %s",
	"lte":   "must be less than or equal to %s",
	"min":   "must be at least %s",
	"max":   "must be at most %s",
}

func translate(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "game":
		return "must be one of the published games"
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	mu       sync.Mutex
	Errors   map[string]any
	instance *validator.Validate
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

func GetDefaultValidator() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = MakeValidatorFrom(
			validator.New(validator.WithRequiredStructEnabled()),
		)
	})

	return defaultValidator
}

func MakeValidatorFrom(abstract *validator.Validate) *Validator {
	registerCustomValidations(abstract)

	abstract.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	return &Validator{
		Errors:   make(map[string]any),
		instance: abstract,
	}
}

func (v *Validator) Passes(subject any) (bool, error) {
	errs, err := v.Inspect(subject)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.Errors = errs

	return err == nil, err
}

// Inspect validates subject and returns its field errors, keyed by json name
// when the field has one. It leaves the shared Errors bag alone, so request
// handlers can call it concurrently.
func (v *Validator) Inspect(subject any) (map[string]any, error) {
	errs := make(map[string]any)

	if err := v.instance.Struct(subject); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return errs, fmt.Errorf("validator: invalid subject: %w", err)
		}

		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, field := range fields {
				errs[field.Field()] = describe(field)
			}
		}

		return errs, fmt.Errorf("validator: the given subject is invalid: %w", err)
	}

	return errs, nil
}

func (v *Validator) Rejects(subject any) (bool, error) {
	passes, err := v.Passes(subject)

	return !passes, err
}

func (v *Validator) GetErrors() map[string]any {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string]any, len(v.Errors))
	for key, value := range v.Errors {
		out[key] = value
	}

	return out
}

func (v *Validator) GetErrorsAsJson() string {
	data, err := json.Marshal(v.GetErrors())
	if err != nil {
		return ""
	}

	return string(data)
}

func describe(field validator.FieldError) string {
	message := fmt.Sprintf("field [%s] failed on the [%s] rule", strings.ToLower(field.Field()), field.Tag())

	if param := field.Param(); param != "" {
		message += fmt.Sprintf(" (%s)", param)
	}

	return message
}

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	projectNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

var customValidations = map[string]validator.Func{
	"projectname": func(fl validator.FieldLevel) bool {
		return projectNamePattern.MatchString(fl.Field().String())
	},
	"urltemplate": func(fl validator.FieldLevel) bool {
		return strings.Contains(fl.Field().String(), URLPlaceholder)
	},
}

func newValidator(custom map[string]validator.Func) (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return v, nil
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v, err := newValidator(customValidations)
		if err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// ValidationError lists every invalid field of a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// Validate checks a fully layered configuration.
func Validate(cfg *EnvironmentConfig) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "EnvironmentConfig.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "projectname":
		return fmt.Sprintf("%s %q must be lowercase letters, digits, '-' or '_'", field, fe.Value())
	case "urltemplate":
		return fmt.Sprintf("%s %q must contain the %s placeholder", field, fe.Value(), URLPlaceholder)
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s (got %v)", field, map[string]string{"min": ">=", "max": "<="}[fe.Tag()], fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation (got %v)", field, fe.Tag(), fe.Value())
	}
}

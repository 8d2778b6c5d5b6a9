package ai

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the tags used by EvaluationConfig registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterValidations(v)
	return v
}

// RegisterValidations adds the custom tags this package relies on to v.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("projecturl", func(fl validator.FieldLevel) bool {
		return isProjectURL(v, fl.Field().String())
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// isProjectURL accepts absolute URLs and scheme-less links such as
// github.com/student/capstone, whose host must contain a dot.
func isProjectURL(v *validator.Validate, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	if v.Var(value, "url") == nil {
		return true
	}
	if strings.Contains(value, "://") || strings.ContainsAny(value, " \t") {
		return false
	}
	host, _, _ := strings.Cut(value, "/")
	if !strings.Contains(host, ".") {
		return false
	}
	return v.Var("https://"+value, "url") == nil
}

// ValidateConfig checks the pre-flight requirements of an evaluation request.
func ValidateConfig(v *validator.Validate, cfg EvaluationConfig) error {
	if v == nil {
		v = NewValidator()
	}
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range validationErrors {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: describeFieldError(fe)})
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "projectTitle":
		return "Project Title is required."
	case "evaluationContext":
		return "Evaluation Context is required."
	case "projectURL":
		return "Project URL must be a valid link."
	}
	if strings.HasPrefix(fe.Field(), "evaluationCriteria[") {
		return "Evaluation criteria must not be empty."
	}
	if fe.Field() == "evaluationCriteria" {
		return fmt.Sprintf("Between %d and %d evaluation criteria are required.", MinCriteria, MaxCriteria)
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

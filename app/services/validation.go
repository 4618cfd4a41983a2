package services

import (
	"errors"
	"fmt"

	"toyblog/app/models"

	"github.com/go-playground/validator/v10"
)

var validate = models.NewValidator()

// ruleSet turns validator field errors into user-facing messages.
type ruleSet struct {
	// required, when set, replaces every "required" failure with one combined message.
	required string
	// labels names each JSON field in messages.
	labels map[string]string
	// overrides holds full messages keyed by "field.tag".
	overrides map[string]string
}

// check validates input and returns a VALIDATION error carrying values, or nil.
func (rs ruleSet) check(input interface{}, values map[string]string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewUnexpectedError("failed to validate input", err)
	}

	fields := make(map[string]string, len(verrs))
	message := ""
	for _, fe := range verrs {
		msg := rs.fieldMessage(fe)
		fields[fe.Field()] = msg
		if message == "" {
			message = msg
		}
	}
	if rs.required != "" {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				message = rs.required
				break
			}
		}
	}
	return NewValidationError(message, fields, values)
}

func (rs ruleSet) fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if msg, ok := rs.overrides[field+"."+fe.Tag()]; ok {
		return msg
	}
	label, ok := rs.labels[field]
	if !ok {
		label = field
	}
	return label + " " + describeTag(fe)
}

func describeTag(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", param)
	case "max":
		return fmt.Sprintf("must be at most %s characters long", param)
	case "eqfield":
		return "must match " + param
	case "phone":
		return "must be a valid phone number"
	case "oneof":
		return "must be one of: " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed the %s=%s check", fe.Tag(), param)
		}
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}

package handler

import (
	"errors"
	"reflect"
	"strings"

	"inforia/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator returns the validator shared by all handlers. Field names in errors are the JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("patient_uuid", func(fl validator.FieldLevel) bool {
		return util.IsValidUUID(fl.Field().String())
	})
	return v
}

var saveReportMessages = map[string]string{
	"patient_id":     "patient_id is required",
	"report_content": "report_content is required and must be a non-empty string",
	"session_type":   "session_type is required and must be a non-empty string",
}

// firstValidationMessage reports the first failing field in declaration order.
func firstValidationMessage(err error, messages map[string]string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request payload"
	}
	fe := verrs[0]
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "patient_uuid":
		return fe.Field() + " must be a valid UUID"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

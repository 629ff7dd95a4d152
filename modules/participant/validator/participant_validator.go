package validator

import (
	"fmt"
	"reflect"
	"strings"

	"mediation-api/core/controller"
	"mediation-api/modules/participant/dto"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (r *ValidationResult) HasError() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

// Message joins the field errors into one line.
func (r *ValidationResult) Message() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

func ValidateInviteRequest(req *dto.InviteRequest) *ValidationResult {
	return check(req)
}

func ValidatePatchRequest(req *dto.PatchRequest) *ValidationResult {
	result := check(req)
	if req.Role == nil && req.Status == nil {
		result.add("body", "at least one of role or status must be provided")
	}
	return result
}

func check(req any) *ValidationResult {
	result := &ValidationResult{}
	err := validate.Struct(req)
	if err == nil {
		return result
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		result.add("body", err.Error())
		return result
	}
	for _, fe := range fieldErrors {
		result.add(fe.Field(), messageFor(fe))
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

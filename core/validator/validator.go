package validator

import (
	"sportmeet/core/controller"
)

// Result collects field errors for one request payload.
type Result struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

func (r *Result) HasError() bool {
	return len(r.Errors) > 0
}

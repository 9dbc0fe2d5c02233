package planner

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskplanner/internal/errs"
)

// check runs struct validation and reports the first failure as a
// ValidationError.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.Invalid("", "%v", err)
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return errs.Invalid(field, "is required")
	case "min":
		return errs.Invalid(field, "must be at least %s", fe.Param())
	case "max":
		return errs.Invalid(field, "must be at most %s", fe.Param())
	}
	return errs.Invalid(field, "failed %s validation", fe.Tag())
}

package services

import (
	"errors"
	"github.com/maxaizer/career-wizard/internal/validation"
	"strings"
)

var (
	ErrCareerNotFound       = errors.New("career not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrJobLimitReached      = errors.New("you have reached the maximum number of jobs for your plan")
	ErrMissingCareerID      = errors.New("career id is required")
	ErrMissingOrgID         = errors.New("organization id is required")
	ErrInvalidFields        = errors.New("career fields could not be decoded")
)

type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fieldErr := range e.Errors {
		parts = append(parts, fieldErr.Field+": "+fieldErr.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HasField(field string) bool {
	for _, fieldErr := range e.Errors {
		if fieldErr.Field == field {
			return true
		}
	}
	return false
}

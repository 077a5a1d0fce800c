package validation

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	IsValid bool
	Errors  []FieldError
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type requiredField struct {
	name  string
	label string
	value func(models.Career) string
}

var publishRequiredFields = []requiredField{
	{"jobTitle", "Job title", func(c models.Career) string { return c.Title }},
	{"description", "Description", func(c models.Career) string { return c.Description }},
	{"location", "Location", func(c models.Career) string { return c.Location }},
	{"workSetup", "Work setup", func(c models.Career) string { return c.WorkSetup }},
}

var negativeMessages = map[string]string{
	"minimumSalary": "Minimum salary cannot be negative",
	"maximumSalary": "Maximum salary cannot be negative",
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return &Validator{validate: v}
}

// Validate checks the career and reports every failing field at once.
// With publish intent the full required set applies, otherwise only the title.
func (v *Validator) Validate(career models.Career, isPublishIntent bool) Result {
	var errs []FieldError

	if isPublishIntent {
		for _, field := range publishRequiredFields {
			if strings.TrimSpace(field.value(career)) == "" {
				errs = append(errs, FieldError{Field: field.name, Message: field.label + " is required for active careers"})
			}
		}
	} else if strings.TrimSpace(career.Title) == "" {
		errs = append(errs, FieldError{Field: "jobTitle", Message: "Job title is required"})
	}

	errs = append(errs, v.structErrors(career)...)

	if career.MinimumSalary != nil && career.MaximumSalary != nil && *career.MinimumSalary > *career.MaximumSalary {
		errs = append(errs, FieldError{Field: "salary", Message: "Minimum salary cannot exceed maximum salary"})
	}

	if len(career.TeamMembers) > 0 && career.TeamMembers.Owners() != 1 {
		errs = append(errs, FieldError{Field: "teamMembers", Message: "Exactly one job owner is required"})
	}

	errs = append(errs, optionErrors(career)...)
	errs = append(errs, questionBankErrors(career.Questions)...)

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

type optionField struct {
	name    string
	value   func(models.Career) string
	options []string
}

var optionFields = []optionField{
	{"employmentType", func(c models.Career) string { return c.EmploymentType }, models.EmploymentTypeOptions},
	{"workSetup", func(c models.Career) string { return c.WorkSetup }, models.WorkSetupOptions},
	{"screeningSetting", func(c models.Career) string { return c.ScreeningSetting }, models.ScreeningOptions},
	{"interviewScreeningSetting", func(c models.Career) string { return c.InterviewScreeningSetting }, models.ScreeningOptions},
}

// optionErrors checks the select-style fields; blanks are left to the required rules.
// Matching ignores case since the two screening defaults differ only in capitalization.
func optionErrors(career models.Career) []FieldError {
	var errs []FieldError
	for _, field := range optionFields {
		value := strings.TrimSpace(field.value(career))
		if value == "" {
			continue
		}
		known := slices.ContainsFunc(field.options, func(option string) bool { return strings.EqualFold(option, value) })
		if !known {
			errs = append(errs, FieldError{Field: field.name, Message: "Must be one of: " + strings.Join(field.options, ", ")})
		}
	}
	return errs
}

// questionBankErrors enforces what models.NewQuestionBank needs to reopen the record:
// unique category ids, non-empty item ids unique across the bank, and a count to ask
// within 0..len(questions).
func questionBankErrors(groups []models.QuestionCategory) []FieldError {
	var errs []FieldError
	categoryIDs := make(map[int]struct{}, len(groups))
	itemIDs := make(map[string]struct{})

	for c, group := range groups {
		if _, seen := categoryIDs[group.ID]; seen {
			errs = append(errs, FieldError{Field: fmt.Sprintf("questions[%d].id", c), Message: "Duplicate question category"})
		}
		categoryIDs[group.ID] = struct{}{}

		for i, item := range group.Questions {
			field := fmt.Sprintf("questions[%d].questions[%d].id", c, i)
			if strings.TrimSpace(item.ID) == "" {
				errs = append(errs, FieldError{Field: field, Message: "Question id is required"})
				continue
			}
			if _, seen := itemIDs[item.ID]; seen {
				errs = append(errs, FieldError{Field: field, Message: "Duplicate question id"})
			}
			itemIDs[item.ID] = struct{}{}
		}

		if count := group.QuestionCountToAsk; count != nil && (*count < 0 || *count > len(group.Questions)) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("questions[%d].questionCountToAsk", c),
				Message: fmt.Sprintf("Must be between 0 and %d", len(group.Questions)),
			})
		}
	}
	return errs
}

func (v *Validator) structErrors(career models.Career) []FieldError {
	err := v.validate.Struct(career)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "record", Message: err.Error()}}
	}

	result := make([]FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldPath(fieldErr.Namespace())
		result = append(result, FieldError{Field: field, Message: message(field, fieldErr)})
	}
	return result
}

// fieldPath drops the leading struct name, "Career.teamMembers[0].email" becomes "teamMembers[0].email".
func fieldPath(namespace string) string {
	if _, path, found := strings.Cut(namespace, "."); found {
		return path
	}
	return namespace
}

func message(field string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "max":
		return fmt.Sprintf("Exceeds maximum length of %s characters", fieldErr.Param())
	case "basic_email":
		return "Invalid email format"
	case "gte":
		if msg, ok := negativeMessages[field]; ok {
			return msg
		}
		return "Cannot be negative"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(fieldErr.Param()), ", ")
	default:
		return fmt.Sprintf("Failed %s check", fieldErr.Tag())
	}
}

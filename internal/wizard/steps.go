package wizard

import (
	"fmt"
	"strings"
)

type Step int

const (
	StepCareerDetails Step = iota
	StepCVReview
	StepAIInterview
	StepPipeline
	StepReview
)

const LastStep = StepReview

const MinInterviewQuestions = 5

var stepTitles = map[Step]string{
	StepCareerDetails: "Career Details & Team Access",
	StepCVReview:      "CV Review & Pre-screening",
	StepAIInterview:   "AI Interview Setup",
	StepPipeline:      "Pipeline Stages",
	StepReview:        "Review Career",
}

func Steps() []Step {
	return []Step{StepCareerDetails, StepCVReview, StepAIInterview, StepPipeline, StepReview}
}

func (s Step) Valid() bool {
	return s >= StepCareerDetails && s <= LastStep
}

func (s Step) String() string {
	if title, ok := stepTitles[s]; ok {
		return title
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

type StepState string

const (
	StateActivePending    StepState = "active-pending"
	StateActiveInProgress StepState = "active-in-progress"
	StateActiveCompleted  StepState = "active-completed"
	StateInactive         StepState = "inactive"
	// StatePendingEmpty is reserved for progress widgets, the state machine never yields it.
	StatePendingEmpty StepState = "pending-empty"
	StateError        StepState = "error"
)

type StepError struct {
	Step    Step
	Fields  []string
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Step, e.Message, strings.Join(e.Fields, ", "))
}

func HasStepData(step Step, form Form) bool {
	switch step {
	case StepCareerDetails:
		return !blank(form.Title) || !blank(form.Description)
	case StepCVReview:
		return !blank(form.SecretPrompt) || len(form.PreScreeningQuestions) > 0
	case StepAIInterview:
		return form.Questions != nil && form.Questions.HasQuestions()
	default:
		return false
	}
}

// ValidateStep runs the wizard-level gate for a step. Steps without a gate always pass.
func ValidateStep(step Step, form Form) error {
	switch step {
	case StepCareerDetails:
		return validateCareerDetails(form)
	case StepAIInterview:
		total := 0
		if form.Questions != nil {
			total = form.Questions.TotalQuestions()
		}
		if total < MinInterviewQuestions {
			return &StepError{
				Step:    step,
				Fields:  []string{"questions"},
				Message: fmt.Sprintf("Please add at least %d interview questions", MinInterviewQuestions),
			}
		}
		return nil
	default:
		return nil
	}
}

func validateCareerDetails(form Form) error {
	var missing []string

	required := []struct {
		field string
		value string
	}{
		{"jobTitle", form.Title},
		{"description", form.Description},
		{"employmentType", form.EmploymentType},
		{"workSetup", form.WorkSetup},
		{"province", form.Province},
		{"location", form.City},
	}
	for _, r := range required {
		if blank(r.value) {
			missing = append(missing, r.field)
		}
	}

	if !form.SalaryNegotiable {
		minimum, maximum := parseSalary(form.MinimumSalary), parseSalary(form.MaximumSalary)
		if minimum == nil || *minimum <= 0 {
			missing = append(missing, "minimumSalary")
		}
		if maximum == nil || *maximum <= 0 {
			missing = append(missing, "maximumSalary")
		}
		if minimum != nil && maximum != nil && *minimum > *maximum {
			missing = append(missing, "salary")
		}
	}

	if len(missing) > 0 {
		return &StepError{Step: StepCareerDetails, Fields: missing, Message: "Please fill in all required fields"}
	}
	return nil
}

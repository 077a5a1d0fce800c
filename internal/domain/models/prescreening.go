package models

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type QuestionType string

const (
	QuestionShortAnswer QuestionType = "short-answer"
	QuestionLongAnswer  QuestionType = "long-answer"
	QuestionDropdown    QuestionType = "dropdown"
	QuestionCheckboxes  QuestionType = "checkboxes"
	QuestionRange       QuestionType = "range"
)

const DefaultCurrency = "PHP"

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionDropdown || t == QuestionCheckboxes
}

type PreScreeningQuestion struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Type     QuestionType `json:"type" validate:"oneof=short-answer long-answer dropdown checkboxes range"`
	Options  []string     `json:"options,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Minimum  *float64     `json:"minimum,omitempty"`
	Maximum  *float64     `json:"maximum,omitempty"`
}

func (q PreScreeningQuestion) clone() PreScreeningQuestion {
	clone := q
	if q.Options != nil {
		clone.Options = append([]string{}, q.Options...)
	}
	clone.Minimum = cloneFloat(q.Minimum)
	clone.Maximum = cloneFloat(q.Maximum)
	return clone
}

// NewPreScreeningQuestion builds an empty question of the given type with its type-specific payload.
func NewPreScreeningQuestion(kind QuestionType, prompt string) PreScreeningQuestion {
	question := PreScreeningQuestion{ID: uuid.NewString(), Question: prompt, Type: kind}
	switch {
	case kind.IsChoice():
		question.Options = []string{""}
	case kind == QuestionRange:
		question.Currency = DefaultCurrency
	}
	return question
}

// SuggestedPreScreeningQuestions are offered one click away in the CV review step.
func SuggestedPreScreeningQuestions() []PreScreeningQuestion {
	noticePeriod := NewPreScreeningQuestion(QuestionDropdown, "How long is your notice period?")
	noticePeriod.Options = []string{"Immediately", "Less than 30 days", "More than 30 days"}

	workSetup := NewPreScreeningQuestion(QuestionDropdown, "How often are you willing to report to the office each week?")
	workSetup.Options = []string{"At most 1-2x a week", "At most 3-4x a week", "Open to fully onsite work", "Only open to fully remote work"}

	askingSalary := NewPreScreeningQuestion(QuestionRange, "How much is your expected monthly salary?")

	return []PreScreeningQuestion{noticePeriod, workSetup, askingSalary}
}

// RemovePreScreeningQuestion returns the list without the question with the given id.
func RemovePreScreeningQuestion(questions []PreScreeningQuestion, id string) []PreScreeningQuestion {
	return lo.Filter(questions, func(q PreScreeningQuestion, _ int) bool {
		return q.ID != id
	})
}

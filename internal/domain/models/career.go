package models

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsPublishIntent reports whether a record with this status is meant to be live.
// An unset status counts as active, matching the create default.
func (s Status) IsPublishIntent() bool {
	return s != StatusInactive
}

const (
	DefaultEmploymentType            = "Full-Time"
	DefaultCountry                   = "Philippines"
	DefaultScreeningSetting          = "Good Fit and Above"
	DefaultInterviewScreeningSetting = "Good Fit and above"
)

var (
	WorkSetupOptions      = []string{"Fully Remote", "Onsite", "Hybrid"}
	EmploymentTypeOptions = []string{"Full-Time", "Part-Time"}
	ScreeningOptions      = []string{"Good Fit and above", "Only Strong Fit", "No Automatic Promotion"}
)

type UserRef struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" validate:"omitempty,basic_email,max=255"`
	Image string `json:"image,omitempty"`
}

type Career struct {
	ID    string `json:"id" gorm:"primaryKey"`
	OrgID string `json:"orgID" gorm:"index"`

	Title            string `json:"jobTitle" validate:"max=200"`
	Description      string `json:"description" validate:"max=10000"`
	EmploymentType   string `json:"employmentType" validate:"max=100"`
	WorkSetup        string `json:"workSetup" validate:"max=100"`
	WorkSetupRemarks string `json:"workSetupRemarks" validate:"max=500"`
	Country          string `json:"country" validate:"max=100"`
	Province         string `json:"province" validate:"max=100"`
	Location         string `json:"location" validate:"max=200"`

	SalaryNegotiable bool     `json:"salaryNegotiable"`
	MinimumSalary    *float64 `json:"minimumSalary" validate:"omitempty,gte=0"`
	MaximumSalary    *float64 `json:"maximumSalary" validate:"omitempty,gte=0"`

	ScreeningSetting      string                 `json:"screeningSetting"`
	RequireVideo          bool                   `json:"requireVideo"`
	SecretPrompt          string                 `json:"secretPrompt" validate:"max=2000"`
	PreScreeningQuestions []PreScreeningQuestion `json:"preScreeningQuestions" gorm:"serializer:json" validate:"dive"`

	InterviewScreeningSetting string             `json:"interviewScreeningSetting"`
	InterviewSecretPrompt     string             `json:"interviewSecretPrompt" validate:"max=2000"`
	Questions                 []QuestionCategory `json:"questions" gorm:"serializer:json"`

	TeamMembers Team `json:"teamMembers" gorm:"serializer:json" validate:"dive"`

	Status         Status `json:"status" gorm:"index" validate:"omitempty,oneof=active inactive"`
	CurrentStep    int    `json:"currentStep"`
	CompletedSteps []int  `json:"completedSteps" gorm:"serializer:json"`

	CreatedBy      *UserRef  `json:"createdBy,omitempty" gorm:"serializer:json"`
	LastEditedBy   *UserRef  `json:"lastEditedBy,omitempty" gorm:"serializer:json"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// UpdatableFields lists the JSON keys an update may touch.
var UpdatableFields = []string{
	"jobTitle", "description", "questions", "location", "workSetup", "workSetupRemarks",
	"screeningSetting", "requireVideo", "status", "salaryNegotiable", "minimumSalary",
	"maximumSalary", "country", "province", "employmentType", "secretPrompt",
	"preScreeningQuestions", "interviewScreeningSetting", "interviewSecretPrompt",
	"teamMembers", "lastEditedBy", "currentStep", "completedSteps",
}

// Patch is a partial career keyed by JSON field name.
type Patch map[string]json.RawMessage

// PatchFrom encodes every updatable field of the career.
func PatchFrom(career Career) (Patch, error) {
	raw, err := json.Marshal(career)
	if err != nil {
		return nil, err
	}
	var patch Patch
	if err = json.Unmarshal(raw, &patch); err != nil {
		return nil, err
	}
	return patch.Updatable(), nil
}

// Updatable drops every key outside UpdatableFields.
func (p Patch) Updatable() Patch {
	filtered := make(Patch, len(p))
	for _, key := range UpdatableFields {
		if value, ok := p[key]; ok {
			filtered[key] = value
		}
	}
	return filtered
}

// ApplyTo decodes the allow-listed keys of the patch onto the career.
func (p Patch) ApplyTo(career *Career) error {
	filtered := p.Updatable()
	if len(filtered) == 0 {
		return nil
	}

	current, err := json.Marshal(*career)
	if err != nil {
		return err
	}
	var merged map[string]json.RawMessage
	if err = json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for key, value := range filtered {
		merged[key] = value
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	// decode into a zero value so nested slices never keep stale elements
	var updated Career
	if err = json.Unmarshal(raw, &updated); err != nil {
		return err
	}
	*career = updated
	return nil
}

// Clone returns a copy that shares no slices or pointers with the original.
func (c Career) Clone() Career {
	clone := c
	clone.MinimumSalary = cloneFloat(c.MinimumSalary)
	clone.MaximumSalary = cloneFloat(c.MaximumSalary)
	if c.PreScreeningQuestions != nil {
		clone.PreScreeningQuestions = make([]PreScreeningQuestion, len(c.PreScreeningQuestions))
		for i, q := range c.PreScreeningQuestions {
			clone.PreScreeningQuestions[i] = q.clone()
		}
	}
	if c.Questions != nil {
		clone.Questions = make([]QuestionCategory, len(c.Questions))
		for i, group := range c.Questions {
			clone.Questions[i] = group.clone()
		}
	}
	if c.TeamMembers != nil {
		clone.TeamMembers = append(Team{}, c.TeamMembers...)
	}
	if c.CompletedSteps != nil {
		clone.CompletedSteps = append([]int{}, c.CompletedSteps...)
	}
	if c.CreatedBy != nil {
		createdBy := *c.CreatedBy
		clone.CreatedBy = &createdBy
	}
	if c.LastEditedBy != nil {
		lastEditedBy := *c.LastEditedBy
		clone.LastEditedBy = &lastEditedBy
	}
	return clone
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	value := *v
	return &value
}

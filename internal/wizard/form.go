package wizard

import (
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"math"
	"strconv"
	"strings"
)

// Form holds the in-memory field values of one authoring session.
// Salaries stay as typed text until the record is built for a save.
type Form struct {
	OrgID string

	Title            string
	Description      string
	EmploymentType   string
	WorkSetup        string
	WorkSetupRemarks string
	Country          string
	Province         string
	City             string

	SalaryNegotiable bool
	MinimumSalary    string
	MaximumSalary    string

	ScreeningSetting      string
	RequireVideo          bool
	SecretPrompt          string
	PreScreeningQuestions []models.PreScreeningQuestion

	InterviewScreeningSetting string
	InterviewSecretPrompt     string
	Questions                 *models.QuestionBank

	TeamMembers models.Team
	Status      models.Status
}

func NewForm(orgID string, owner models.UserRef) Form {
	form := Form{
		OrgID:                     orgID,
		EmploymentType:            models.DefaultEmploymentType,
		Country:                   models.DefaultCountry,
		SalaryNegotiable:          true,
		ScreeningSetting:          models.DefaultScreeningSetting,
		RequireVideo:              true,
		InterviewScreeningSetting: models.DefaultInterviewScreeningSetting,
		Questions:                 models.DefaultQuestionBank(),
		PreScreeningQuestions:     []models.PreScreeningQuestion{},
		TeamMembers:               models.Team{},
	}
	if owner.Email != "" {
		form.TeamMembers = models.Team{models.NewOwner(owner)}
	}
	return form
}

func FormFromCareer(career models.Career) (Form, error) {
	groups := career.Questions
	if len(groups) == 0 {
		groups = models.DefaultQuestionCategories()
	}
	bank, err := models.NewQuestionBank(groups)
	if err != nil {
		return Form{}, err
	}

	clone := career.Clone()
	return Form{
		OrgID:                     clone.OrgID,
		Title:                     clone.Title,
		Description:               clone.Description,
		EmploymentType:            clone.EmploymentType,
		WorkSetup:                 clone.WorkSetup,
		WorkSetupRemarks:          clone.WorkSetupRemarks,
		Country:                   clone.Country,
		Province:                  clone.Province,
		City:                      clone.Location,
		SalaryNegotiable:          clone.SalaryNegotiable,
		MinimumSalary:             formatSalary(clone.MinimumSalary),
		MaximumSalary:             formatSalary(clone.MaximumSalary),
		ScreeningSetting:          clone.ScreeningSetting,
		RequireVideo:              clone.RequireVideo,
		SecretPrompt:              clone.SecretPrompt,
		PreScreeningQuestions:     clone.PreScreeningQuestions,
		InterviewScreeningSetting: clone.InterviewScreeningSetting,
		InterviewSecretPrompt:     clone.InterviewSecretPrompt,
		Questions:                 bank,
		TeamMembers:               clone.TeamMembers,
		Status:                    clone.Status,
	}, nil
}

// Career builds the outbound record with salaries normalized to number or nil.
func (f Form) Career() models.Career {
	career := models.Career{
		OrgID:                     f.OrgID,
		Title:                     f.Title,
		Description:               f.Description,
		EmploymentType:            f.EmploymentType,
		WorkSetup:                 f.WorkSetup,
		WorkSetupRemarks:          f.WorkSetupRemarks,
		Country:                   f.Country,
		Province:                  f.Province,
		Location:                  f.City,
		SalaryNegotiable:          f.SalaryNegotiable,
		MinimumSalary:             parseSalary(f.MinimumSalary),
		MaximumSalary:             parseSalary(f.MaximumSalary),
		ScreeningSetting:          f.ScreeningSetting,
		RequireVideo:              f.RequireVideo,
		SecretPrompt:              f.SecretPrompt,
		PreScreeningQuestions:     f.PreScreeningQuestions,
		InterviewScreeningSetting: f.InterviewScreeningSetting,
		InterviewSecretPrompt:     f.InterviewSecretPrompt,
		TeamMembers:               f.TeamMembers,
		Status:                    f.Status,
	}
	if f.Questions != nil {
		career.Questions = f.Questions.Categories()
	}
	return career.Clone()
}

func parseSalary(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return nil
	}
	return &number
}

func formatSalary(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

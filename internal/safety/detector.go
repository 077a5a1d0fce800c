package safety

import (
	"fmt"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"regexp"
)

const WarningMessage = "Contains potentially unsafe HTML that will be removed"

type Warning struct {
	Field     string `json:"field"`
	Message   string `json:"message"`
	Original  string `json:"original"`
	Sanitized string `json:"sanitized"`
}

var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[\s\S]*?>`),
	regexp.MustCompile(`(?i)<iframe[\s\S]*?>`),
	regexp.MustCompile(`(?i)<object[\s\S]*?>`),
	regexp.MustCompile(`(?i)<embed[\s\S]*?>`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)<svg[\s\S]*?on\w+`),
	regexp.MustCompile(`(?i)data:text/html`),
	regexp.MustCompile(`(?i)<form[\s\S]*?>`),
}

// HasMaliciousContent reports whether the text carries active-content markup.
func HasMaliciousContent(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range maliciousPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Detect scans the text-bearing fields of a career and returns one warning per
// flagged field whose sanitized form differs from the original.
func Detect(career models.Career) []Warning {
	var warnings []Warning

	check := func(field, value string, sanitize func(string) string) {
		if !HasMaliciousContent(value) {
			return
		}
		sanitized := sanitize(value)
		if sanitized == value {
			return
		}
		warnings = append(warnings, Warning{
			Field:     field,
			Message:   WarningMessage,
			Original:  value,
			Sanitized: sanitized,
		})
	}

	check("description", career.Description, SanitizeHTML)
	check("jobTitle", career.Title, SanitizePlainText)
	check("location", career.Location, SanitizePlainText)
	check("workSetupRemarks", career.WorkSetupRemarks, SanitizePlainText)
	check("secretPrompt", career.SecretPrompt, SanitizePlainText)
	check("interviewSecretPrompt", career.InterviewSecretPrompt, SanitizePlainText)

	for c, group := range career.Questions {
		for i, item := range group.Questions {
			check(fmt.Sprintf("questions[%d].questions[%d].question", c, i), item.Question, SanitizePlainText)
		}
	}

	for i, question := range career.PreScreeningQuestions {
		check(fmt.Sprintf("preScreeningQuestions[%d].question", i), question.Question, SanitizePlainText)
	}

	return warnings
}

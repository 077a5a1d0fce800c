package services

import (
	"context"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/logger"
	"github.com/maxaizer/career-wizard/internal/metrics"
	"github.com/maxaizer/career-wizard/internal/safety"
	"github.com/maxaizer/career-wizard/internal/validation"
	log "github.com/sirupsen/logrus"
	"strings"
)

type Outcome struct {
	Career               *models.Career   `json:"career,omitempty"`
	RequiresConfirmation bool             `json:"requiresConfirmation"`
	Warnings             []safety.Warning `json:"warnings,omitempty"`
	SanitizedPreview     *models.Career   `json:"sanitizedData,omitempty"`
}

type persistFunc func(ctx context.Context, career *models.Career) error

type ConfirmationGate struct {
	validator *validation.Validator
}

func NewConfirmationGate(validator *validation.Validator) *ConfirmationGate {
	return &ConfirmationGate{validator: validator}
}

// Run detects unsafe markup unless confirmed, then sanitizes, validates and persists.
// Nothing is written while confirmation is pending or validation fails.
func (g *ConfirmationGate) Run(ctx context.Context, career models.Career, confirmed bool, persist persistFunc) (*Outcome, error) {
	if !confirmed {
		if warnings := safety.Detect(career); len(warnings) > 0 {
			for _, warning := range warnings {
				metrics.ThreatsDetectedCounter.WithLabelValues(metricField(warning.Field)).Inc()
			}
			metrics.ConfirmationsRequiredCounter.Inc()
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeSanitization).
				Warnf("career %q requires sanitization confirmation for %d field(s)", career.ID, len(warnings))

			preview := safety.SanitizeCareer(career)
			return &Outcome{RequiresConfirmation: true, Warnings: warnings, SanitizedPreview: &preview}, nil
		}
	}

	sanitized := safety.SanitizeCareer(career)

	result := g.validator.Validate(sanitized, sanitized.Status.IsPublishIntent())
	if !result.IsValid {
		for _, fieldErr := range result.Errors {
			metrics.ValidationFailuresCounter.WithLabelValues(metricField(fieldErr.Field)).Inc()
		}
		return nil, &ValidationError{Errors: result.Errors}
	}

	if err := persist(ctx, &sanitized); err != nil {
		return nil, err
	}
	return &Outcome{Career: &sanitized}, nil
}

// metricField keeps the top-level field of a path so labels stay bounded,
// "questions[1].questions[0].question" becomes "questions".
func metricField(path string) string {
	field, _, _ := strings.Cut(path, "[")
	field, _, _ = strings.Cut(field, ".")
	return field
}

package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/career-wizard/internal/domain/events"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/logger"
	"github.com/maxaizer/career-wizard/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"slices"
	"strings"
	"time"
)

type careerRepository interface {
	Create(ctx context.Context, career *models.Career) error
	GetByID(ctx context.Context, id string) (*models.Career, error)
	Save(ctx context.Context, career *models.Career) error
	GetByOrg(ctx context.Context, orgID string) ([]models.Career, error)
	CountByStatus(ctx context.Context, orgID string, status models.Status) (int64, error)
}

type organizationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

type CreateRequest struct {
	Career    models.Career
	Confirmed bool
}

type UpdateRequest struct {
	ID        string
	Fields    models.Patch
	Confirmed bool
}

// ProgressRequest merges step data and adds completed steps without duplicates.
type ProgressRequest struct {
	ID             string
	StepData       models.Patch
	CurrentStep    int
	CompletedSteps []int
	Confirmed      bool
}

type Careers struct {
	careers       careerRepository
	organizations organizationRepository
	gate          *ConfirmationGate
	bus           EventBus.Bus
	now           func() time.Time
}

func NewCareers(careers careerRepository, organizations organizationRepository, gate *ConfirmationGate,
	bus EventBus.Bus) *Careers {
	return &Careers{
		careers:       careers,
		organizations: organizations,
		gate:          gate,
		bus:           bus,
		now:           time.Now,
	}
}

func (s *Careers) Get(ctx context.Context, id string) (*models.Career, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingCareerID
	}
	career, err := s.careers.GetByID(ctx, id)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load career %s: %v", id, err)
		return nil, errors.Wrap(err, "load career")
	}
	if career == nil {
		return nil, ErrCareerNotFound
	}
	return career, nil
}

func (s *Careers) List(ctx context.Context, orgID string) ([]models.Career, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrMissingOrgID
	}
	careers, err := s.careers.GetByOrg(ctx, orgID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to list careers of %s: %v", orgID, err)
		return nil, errors.Wrap(err, "list careers")
	}
	return careers, nil
}

func (s *Careers) Create(ctx context.Context, req CreateRequest) (*Outcome, error) {
	career := req.Career.Clone()
	if strings.TrimSpace(career.OrgID) == "" {
		return nil, ErrMissingOrgID
	}

	org, err := s.organizations.GetByID(ctx, career.OrgID)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to load organization %s: %v", career.OrgID, err)
		return nil, errors.Wrap(err, "load organization")
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	career.ID = ""
	if career.Status == "" {
		career.Status = models.StatusActive
	}
	if career.CompletedSteps == nil {
		career.CompletedSteps = []int{}
	}

	outcome, err := s.gate.Run(ctx, career, req.Confirmed, func(ctx context.Context, c *models.Career) error {
		if c.Status == models.StatusActive {
			active, err := s.careers.CountByStatus(ctx, c.OrgID, models.StatusActive)
			if err != nil {
				return errors.Wrap(err, "count active careers")
			}
			if active >= int64(org.JobCap()) {
				metrics.JobLimitRejectionsCounter.Inc()
				return ErrJobLimitReached
			}
		}

		now := s.now()
		c.ID = uuid.NewString()
		c.CreatedAt, c.UpdatedAt, c.LastActivityAt = now, now, now
		return errors.Wrap(s.careers.Create(ctx, c), "create career")
	})
	if err != nil {
		s.logFailure("create", career.ID, err)
		return nil, err
	}

	s.afterWrite(outcome, true)
	return outcome, nil
}

func (s *Careers) Update(ctx context.Context, req UpdateRequest) (*Outcome, error) {
	merged, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err = req.Fields.ApplyTo(merged); err != nil {
		return nil, errors.Wrap(ErrInvalidFields, err.Error())
	}

	return s.save(ctx, *merged, req.Confirmed, "update")
}

func (s *Careers) UpdateProgress(ctx context.Context, req ProgressRequest) (*Outcome, error) {
	merged, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err = req.StepData.ApplyTo(merged); err != nil {
		return nil, errors.Wrap(ErrInvalidFields, err.Error())
	}

	if req.CurrentStep != 0 {
		merged.CurrentStep = req.CurrentStep
	}
	merged.CompletedSteps = lo.Uniq(append(slices.Clone(merged.CompletedSteps), req.CompletedSteps...))
	slices.Sort(merged.CompletedSteps)

	return s.save(ctx, *merged, req.Confirmed, "progress")
}

func (s *Careers) load(ctx context.Context, id string) (*models.Career, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := existing.Clone()
	return &merged, nil
}

func (s *Careers) save(ctx context.Context, career models.Career, confirmed bool, action string) (*Outcome, error) {
	outcome, err := s.gate.Run(ctx, career, confirmed, func(ctx context.Context, c *models.Career) error {
		now := s.now()
		c.UpdatedAt, c.LastActivityAt = now, now
		return errors.Wrap(s.careers.Save(ctx, c), "save career")
	})
	if err != nil {
		s.logFailure(action, career.ID, err)
		return nil, err
	}

	s.afterWrite(outcome, false)
	return outcome, nil
}

func (s *Careers) afterWrite(outcome *Outcome, created bool) {
	if outcome.Career == nil {
		return
	}
	career := *outcome.Career

	action := lo.Ternary(created, "create", "update")
	metrics.CareerSavesCounter.WithLabelValues(action, string(career.Status)).Inc()
	log.Infof("career %s saved (%s, status %s)", career.ID, action, career.Status)

	if career.Status == models.StatusActive && s.bus != nil {
		s.bus.Publish(events.CareerPublishedTopic, events.CareerPublished{Career: career, Created: created})
	}
}

func (s *Careers) logFailure(action, careerID string, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ErrJobLimitReached):
		log.Infof("career %s rejected: %v", action, err)
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("career %s failed for %q: %v", action, careerID, err)
	}
}

package wizard

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/career-wizard/internal/domain/events"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/safety"
	"github.com/maxaizer/career-wizard/internal/services"
	log "github.com/sirupsen/logrus"
	"sync/atomic"
	"time"
)

const DefaultRedirectDelay = 1300 * time.Millisecond

const (
	careersListPath  = "/recruiter-dashboard/careers"
	manageCareerPath = "/recruiter-dashboard/careers/manage/%s"
)

var (
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrSalaryRange    = errors.New("minimum salary cannot be greater than maximum salary")
)

type careerGateway interface {
	Create(ctx context.Context, req services.CreateRequest) (*services.Outcome, error)
	Update(ctx context.Context, req services.UpdateRequest) (*services.Outcome, error)
}

// Confirmer asks the user whether the sanitized rewrite may replace their input.
type Confirmer interface {
	ConfirmSanitization(ctx context.Context, warnings []safety.Warning, preview models.Career) (bool, error)
}

type SaveOptions struct {
	Status   models.Status
	Redirect bool
	// ConfirmSanitization resubmits a save the user already accepted.
	ConfirmSanitization bool
	// ProgressOnly marks an intermediate save that keeps the wizard open.
	ProgressOnly bool
}

type SaveResult struct {
	Saved                bool
	Career               *models.Career
	RequiresConfirmation bool
	Warnings             []safety.Warning
	SanitizedPreview     *models.Career
	RedirectURL          string
}

type SaveCoordinator struct {
	gateway       careerGateway
	bus           EventBus.Bus
	confirmer     Confirmer
	inFlight      atomic.Bool
	redirectDelay time.Duration
	onSaving      func(saving bool)
}

func NewSaveCoordinator(gateway careerGateway, bus EventBus.Bus) *SaveCoordinator {
	return &SaveCoordinator{
		gateway:       gateway,
		bus:           bus,
		redirectDelay: DefaultRedirectDelay,
		onSaving:      func(bool) {},
	}
}

func (c *SaveCoordinator) WithConfirmer(confirmer Confirmer) *SaveCoordinator {
	c.confirmer = confirmer
	return c
}

func (c *SaveCoordinator) WithRedirectDelay(delay time.Duration) *SaveCoordinator {
	c.redirectDelay = delay
	return c
}

func (c *SaveCoordinator) WithSavingIndicator(onSaving func(saving bool)) *SaveCoordinator {
	c.onSaving = onSaving
	return c
}

// Save persists the session's career. Only one save runs at a time; a call
// made while another is outstanding fails with ErrSaveInProgress and does nothing.
func (c *SaveCoordinator) Save(ctx context.Context, session *Session, editor models.UserRef, opts SaveOptions) (*SaveResult, error) {
	if err := checkSalaryRange(session.Form); err != nil {
		c.publishFailure(session, err.Error(), err)
		return nil, err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}

	result, err := c.submit(ctx, session, editor, opts)
	if err != nil || !result.RequiresConfirmation || c.confirmer == nil || opts.ConfirmSanitization {
		return result, err
	}

	accepted, err := c.confirmer.ConfirmSanitization(ctx, result.Warnings, *result.SanitizedPreview)
	if err != nil || !accepted {
		log.Infof("sanitization declined for career %q", session.CareerID())
		return result, err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	opts.ConfirmSanitization = true
	return c.submit(ctx, session, editor, opts)
}

// submit runs one round trip with the in-flight flag already held and always releases it.
func (c *SaveCoordinator) submit(ctx context.Context, session *Session, editor models.UserRef, opts SaveOptions) (*SaveResult, error) {
	c.onSaving(true)
	defer func() {
		c.onSaving(false)
		c.inFlight.Store(false)
	}()

	career := session.Career()
	if opts.Status != "" {
		career.Status = opts.Status
	}
	career.LastEditedBy = &editor
	creating := !session.IsSaved()

	var outcome *services.Outcome
	var err error
	if creating {
		career.CreatedBy = &editor
		outcome, err = c.gateway.Create(ctx, services.CreateRequest{Career: career, Confirmed: opts.ConfirmSanitization})
	} else {
		var patch models.Patch
		patch, err = models.PatchFrom(career)
		if err == nil {
			outcome, err = c.gateway.Update(ctx, services.UpdateRequest{
				ID:        session.CareerID(),
				Fields:    patch,
				Confirmed: opts.ConfirmSanitization,
			})
		}
	}

	if err != nil {
		c.publishFailure(session, failureMessage(creating, opts), err)
		return nil, err
	}

	if outcome.RequiresConfirmation {
		c.bus.Publish(events.SanitizationRequiredTopic, events.SanitizationRequired{
			CareerID: session.CareerID(),
			Warnings: outcome.Warnings,
		})
		return &SaveResult{
			RequiresConfirmation: true,
			Warnings:             outcome.Warnings,
			SanitizedPreview:     outcome.SanitizedPreview,
		}, nil
	}

	saved := *outcome.Career
	session.markSaved(saved.ID)

	c.bus.Publish(events.CareerSavedTopic, events.CareerSaved{
		Career:  saved,
		Created: creating,
		Message: successMessage(creating, opts),
	})

	result := &SaveResult{Saved: true, Career: &saved}
	if opts.Redirect {
		result.RedirectURL = RedirectURL(creating, saved.ID)
		c.scheduleRedirect(result.RedirectURL)
	}
	return result, nil
}

func (c *SaveCoordinator) scheduleRedirect(url string) {
	time.AfterFunc(c.redirectDelay, func() {
		c.bus.Publish(events.RedirectTopic, events.Redirect{URL: url})
	})
}

func (c *SaveCoordinator) publishFailure(session *Session, message string, err error) {
	log.Warnf("career save failed: %s: %v", message, err)
	c.bus.Publish(events.CareerSaveFailedTopic, events.CareerSaveFailed{
		CareerID: session.CareerID(),
		Message:  message,
		Err:      err,
	})
}

func checkSalaryRange(form Form) error {
	minimum, maximum := parseSalary(form.MinimumSalary), parseSalary(form.MaximumSalary)
	if minimum != nil && maximum != nil && *minimum != 0 && *maximum != 0 && *minimum > *maximum {
		return ErrSalaryRange
	}
	return nil
}

func successMessage(created bool, opts SaveOptions) string {
	switch {
	case opts.ProgressOnly:
		return "Progress saved"
	case created:
		return "Career added and published"
	default:
		return "Career updated"
	}
}

func failureMessage(created bool, opts SaveOptions) string {
	switch {
	case opts.ProgressOnly:
		return "Failed to save progress"
	case created:
		return "Failed to add career"
	default:
		return "Failed to update career"
	}
}

// RedirectURL is where the dashboard goes after a save: the list after a
// create, the manage page after an update.
func RedirectURL(created bool, careerID string) string {
	if created {
		return careersListPath
	}
	return fmt.Sprintf(manageCareerPath, careerID)
}

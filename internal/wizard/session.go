package wizard

import (
	"context"
	"errors"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/services"
	"github.com/samber/lo"
	"slices"
)

var (
	ErrLastStep    = errors.New("already on the last step")
	ErrStepLocked  = errors.New("cannot jump ahead of the current step")
	ErrInvalidStep = errors.New("invalid step")
)

// Session is the explicit state of one authoring session: form values,
// current step, per-step error flags and whether the career is persisted.
type Session struct {
	Form      Form
	careerID  string
	current   Step
	errors    map[Step]bool
	completed []int
}

func NewSession(form Form) *Session {
	return &Session{Form: form, errors: map[Step]bool{}, completed: []int{}}
}

func ResumeSession(career models.Career) (*Session, error) {
	form, err := FormFromCareer(career)
	if err != nil {
		return nil, err
	}

	session := NewSession(form)
	session.careerID = career.ID
	session.current = Step(max(0, min(career.CurrentStep, int(LastStep))))
	session.completed = lo.Uniq(lo.Filter(career.CompletedSteps, func(step int, _ int) bool {
		return Step(step).Valid()
	}))
	slices.Sort(session.completed)
	return session, nil
}

func (s *Session) CareerID() string {
	return s.careerID
}

func (s *Session) IsSaved() bool {
	return s.careerID != ""
}

func (s *Session) CurrentStep() Step {
	return s.current
}

func (s *Session) HasError(step Step) bool {
	return s.errors[step]
}

func (s *Session) CompletedSteps() []int {
	return slices.Clone(s.completed)
}

func (s *Session) StepState(step Step) StepState {
	switch {
	case step < s.current:
		return StateActiveCompleted
	case step > s.current:
		return StateInactive
	case s.errors[step]:
		return StateError
	case HasStepData(step, s.Form):
		return StateActiveInProgress
	default:
		return StateActivePending
	}
}

func (s *Session) StepStates() []StepState {
	return lo.Map(Steps(), func(step Step, _ int) StepState {
		return s.StepState(step)
	})
}

// Advance validates the current step and moves to the next one. A failing
// gate flags the step and keeps the session where it is.
func (s *Session) Advance() error {
	if s.current >= LastStep {
		return ErrLastStep
	}

	if err := ValidateStep(s.current, s.Form); err != nil {
		s.errors[s.current] = true
		return err
	}

	s.errors[s.current] = false
	if !lo.Contains(s.completed, int(s.current)) {
		s.completed = append(s.completed, int(s.current))
		slices.Sort(s.completed)
	}
	s.current++
	return nil
}

func (s *Session) JumpTo(step Step) error {
	if !step.Valid() {
		return ErrInvalidStep
	}
	if step > s.current {
		return ErrStepLocked
	}
	s.current = step
	return nil
}

// Career builds the outbound record including identity and progress markers.
func (s *Session) Career() models.Career {
	career := s.Form.Career()
	career.ID = s.careerID
	career.CurrentStep = int(s.current)
	career.CompletedSteps = s.CompletedSteps()
	return career
}

func (s *Session) markSaved(careerID string) {
	if careerID != "" {
		s.careerID = careerID
	}
}

type questionGenerator interface {
	Generate(ctx context.Context, req services.GenerateRequest) ([]string, error)
}

func (s *Session) GenerateQuestions(ctx context.Context, generator questionGenerator, categoryID int) ([]models.QuestionItem, error) {
	if s.Form.Questions == nil {
		s.Form.Questions = models.DefaultQuestionBank()
	}

	category, ok := s.Form.Questions.Category(categoryID)
	if !ok {
		return nil, models.ErrCategoryNotFound
	}

	existing := lo.Map(category.Questions, func(item models.QuestionItem, _ int) string {
		return item.Question
	})

	generated, err := generator.Generate(ctx, services.GenerateRequest{
		JobTitle:    s.Form.Title,
		Description: s.Form.Description,
		Category:    category.Category,
		Existing:    existing,
	})
	if err != nil {
		return nil, err
	}

	added := make([]models.QuestionItem, 0, len(generated))
	for _, text := range generated {
		item, err := s.Form.Questions.Add(categoryID, text)
		if err != nil {
			continue
		}
		added = append(added, item)
	}
	return added, nil
}

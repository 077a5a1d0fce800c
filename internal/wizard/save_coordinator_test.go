package wizard

import (
	"context"
	"errors"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/career-wizard/internal/domain/events"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/safety"
	"github.com/maxaizer/career-wizard/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

type mockGateway struct {
	mu      sync.Mutex
	creates []services.CreateRequest
	updates []services.UpdateRequest
	block   chan struct{}
	entered chan struct{}
	err     error
	// warnings are returned for every unconfirmed request when set
	warnings []safety.Warning
}

func (m *mockGateway) Create(_ context.Context, req services.CreateRequest) (*services.Outcome, error) {
	m.mu.Lock()
	m.creates = append(m.creates, req)
	m.mu.Unlock()
	return m.respond(req.Career, req.Confirmed, "career-1")
}

func (m *mockGateway) Update(_ context.Context, req services.UpdateRequest) (*services.Outcome, error) {
	m.mu.Lock()
	m.updates = append(m.updates, req)
	m.mu.Unlock()

	career := models.Career{ID: req.ID}
	if err := req.Fields.ApplyTo(&career); err != nil {
		return nil, err
	}
	return m.respond(career, req.Confirmed, req.ID)
}

func (m *mockGateway) respond(career models.Career, confirmed bool, id string) (*services.Outcome, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.warnings) > 0 && !confirmed {
		preview := safety.SanitizeCareer(career)
		return &services.Outcome{RequiresConfirmation: true, Warnings: m.warnings, SanitizedPreview: &preview}, nil
	}
	saved := safety.SanitizeCareer(career)
	saved.ID = id
	return &services.Outcome{Career: &saved}, nil
}

func (m *mockGateway) createCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.creates)
}

type mockConfirmer struct {
	accept bool
	calls  int
}

func (m *mockConfirmer) ConfirmSanitization(_ context.Context, _ []safety.Warning, _ models.Career) (bool, error) {
	m.calls++
	return m.accept, nil
}

var editor = models.UserRef{Name: "Ana", Email: "ana@example.com"}

func Test_Save_WhenCalledTwiceConcurrently_ShouldCreateOnce(t *testing.T) {
	gateway := &mockGateway{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	coordinator := NewSaveCoordinator(gateway, EventBus.New())
	session := NewSession(completeDetailsForm())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = coordinator.Save(context.Background(), session, editor, SaveOptions{Status: models.StatusActive})
	}()

	<-gateway.entered
	_, err := coordinator.Save(context.Background(), session, editor, SaveOptions{Status: models.StatusActive})
	assert.ErrorIs(t, err, ErrSaveInProgress)

	close(gateway.block)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, 1, gateway.createCount())
	assert.Equal(t, "career-1", session.CareerID())
}

func Test_Save_AfterCreate_ShouldUpdateSameCareer(t *testing.T) {
	gateway := &mockGateway{}
	coordinator := NewSaveCoordinator(gateway, EventBus.New())
	session := NewSession(completeDetailsForm())

	_, err := coordinator.Save(context.Background(), session, editor, SaveOptions{Status: models.StatusInactive, ProgressOnly: true})
	require.NoError(t, err)
	session.Form.Title = "Senior Backend Engineer"
	result, err := coordinator.Save(context.Background(), session, editor, SaveOptions{Status: models.StatusActive})
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.createCount())
	require.Len(t, gateway.updates, 1)
	assert.Equal(t, "career-1", gateway.updates[0].ID)
	assert.NotContains(t, gateway.updates[0].Fields, "orgID")
	assert.Equal(t, "Senior Backend Engineer", result.Career.Title)
	assert.Equal(t, models.StatusActive, result.Career.Status)
	require.NotNil(t, gateway.creates[0].Career.CreatedBy)
	assert.Equal(t, editor, *gateway.creates[0].Career.LastEditedBy)
}

func Test_Save_WhenSalaryRangeInverted_ShouldRejectWithoutRoundTrip(t *testing.T) {
	gateway := &mockGateway{}
	bus := EventBus.New()
	var failures []events.CareerSaveFailed
	require.NoError(t, bus.Subscribe(events.CareerSaveFailedTopic, func(e events.CareerSaveFailed) {
		failures = append(failures, e)
	}))

	form := completeDetailsForm()
	form.MinimumSalary = "90000"
	form.MaximumSalary = "50000"

	_, err := NewSaveCoordinator(gateway, bus).Save(context.Background(), NewSession(form), editor, SaveOptions{})

	assert.ErrorIs(t, err, ErrSalaryRange)
	assert.Equal(t, 0, gateway.createCount())
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, ErrSalaryRange)
}

func Test_Save_WhenOneSalaryIsZero_ShouldNotRunEarlyCheck(t *testing.T) {
	gateway := &mockGateway{}
	form := completeDetailsForm()
	form.MinimumSalary = "90000"
	form.MaximumSalary = "0"

	_, err := NewSaveCoordinator(gateway, EventBus.New()).Save(context.Background(), NewSession(form), editor, SaveOptions{})

	assert.NoError(t, err)
	assert.Equal(t, 1, gateway.createCount())
}

func Test_Save_WhenGatewayFails_ShouldPublishFailureAndRelease(t *testing.T) {
	gateway := &mockGateway{err: errors.New("boom")}
	bus := EventBus.New()
	var messages []string
	require.NoError(t, bus.Subscribe(events.CareerSaveFailedTopic, func(e events.CareerSaveFailed) {
		messages = append(messages, e.Message)
	}))
	var indicator []bool
	coordinator := NewSaveCoordinator(gateway, bus).WithSavingIndicator(func(saving bool) {
		indicator = append(indicator, saving)
	})
	session := NewSession(completeDetailsForm())

	_, err := coordinator.Save(context.Background(), session, editor, SaveOptions{})
	require.Error(t, err)

	assert.Equal(t, []string{"Failed to add career"}, messages)
	assert.Equal(t, []bool{true, false}, indicator)
	assert.False(t, session.IsSaved())

	gateway.err = nil
	_, err = coordinator.Save(context.Background(), session, editor, SaveOptions{})
	assert.NoError(t, err)
}

func Test_Save_WhenSanitizationNeeded_ShouldReturnPreviewWithoutConfirmer(t *testing.T) {
	gateway := &mockGateway{warnings: []safety.Warning{{Field: "description", Message: safety.WarningMessage}}}
	bus := EventBus.New()
	var required []events.SanitizationRequired
	require.NoError(t, bus.Subscribe(events.SanitizationRequiredTopic, func(e events.SanitizationRequired) {
		required = append(required, e)
	}))
	session := NewSession(completeDetailsForm())
	session.Form.Description = "<p>Hi</p><script>alert(1)</script>"

	coordinator := NewSaveCoordinator(gateway, bus)
	result, err := coordinator.Save(context.Background(), session, editor, SaveOptions{})
	require.NoError(t, err)

	assert.True(t, result.RequiresConfirmation)
	assert.False(t, result.Saved)
	assert.Equal(t, "<p>Hi</p>", result.SanitizedPreview.Description)
	assert.Len(t, required, 1)
	assert.False(t, session.IsSaved())

	result, err = coordinator.Save(context.Background(), session, editor, SaveOptions{ConfirmSanitization: true})
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, 2, gateway.createCount())
	assert.True(t, gateway.creates[1].Confirmed)
}

func Test_Save_WithConfirmer_ShouldResubmitOnlyWhenAccepted(t *testing.T) {
	warnings := []safety.Warning{{Field: "jobTitle", Message: safety.WarningMessage}}

	declined := &mockConfirmer{accept: false}
	gateway := &mockGateway{warnings: warnings}
	result, err := NewSaveCoordinator(gateway, EventBus.New()).WithConfirmer(declined).
		Save(context.Background(), NewSession(completeDetailsForm()), editor, SaveOptions{})
	require.NoError(t, err)
	assert.True(t, result.RequiresConfirmation)
	assert.Equal(t, 1, declined.calls)
	assert.Equal(t, 1, gateway.createCount())

	accepted := &mockConfirmer{accept: true}
	gateway = &mockGateway{warnings: warnings}
	result, err = NewSaveCoordinator(gateway, EventBus.New()).WithConfirmer(accepted).
		Save(context.Background(), NewSession(completeDetailsForm()), editor, SaveOptions{})
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, 2, gateway.createCount())
	assert.False(t, gateway.creates[0].Confirmed)
	assert.True(t, gateway.creates[1].Confirmed)
}

func Test_Save_WithRedirect_ShouldPublishAfterDelay(t *testing.T) {
	bus := EventBus.New()
	redirects := make(chan string, 2)
	require.NoError(t, bus.Subscribe(events.RedirectTopic, func(e events.Redirect) {
		redirects <- e.URL
	}))
	var saved []events.CareerSaved
	require.NoError(t, bus.Subscribe(events.CareerSavedTopic, func(e events.CareerSaved) {
		saved = append(saved, e)
	}))

	coordinator := NewSaveCoordinator(&mockGateway{}, bus).WithRedirectDelay(10 * time.Millisecond)
	session := NewSession(completeDetailsForm())

	result, err := coordinator.Save(context.Background(), session, editor, SaveOptions{Status: models.StatusActive, Redirect: true})
	require.NoError(t, err)
	assert.Equal(t, "/recruiter-dashboard/careers", result.RedirectURL)

	select {
	case url := <-redirects:
		assert.Equal(t, "/recruiter-dashboard/careers", url)
	case <-time.After(time.Second):
		t.Fatal("redirect was not published")
	}
	require.Len(t, saved, 1)
	assert.Equal(t, "Career added and published", saved[0].Message)
	assert.True(t, saved[0].Created)

	result, err = coordinator.Save(context.Background(), session, editor, SaveOptions{Redirect: true})
	require.NoError(t, err)
	assert.Equal(t, "/recruiter-dashboard/careers/manage/career-1", result.RedirectURL)
	assert.Equal(t, "/recruiter-dashboard/careers/manage/career-1", <-redirects)
	assert.Equal(t, "Career updated", saved[1].Message)
}

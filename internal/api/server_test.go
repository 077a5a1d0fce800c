package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/career-wizard/internal/api/handlers"
	"github.com/maxaizer/career-wizard/internal/api/response"
	"github.com/maxaizer/career-wizard/internal/config"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/repositories"
	"github.com/maxaizer/career-wizard/internal/services"
	"github.com/maxaizer/career-wizard/internal/validation"
	"github.com/maxaizer/career-wizard/internal/wizard"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

type apiFixture struct {
	router *gin.Engine
	repo   *repositories.Careers
}

type stubGenerator struct {
	questions []string
	err       error
}

func (s stubGenerator) Generate(_ context.Context, _ services.GenerateRequest) ([]string, error) {
	return s.questions, s.err
}

type careerResponse struct {
	Message              string           `json:"message"`
	Redirect             *struct {
		URL     string `json:"url"`
		DelayMs int64  `json:"delayMs"`
	} `json:"redirect"`
	Career               *models.Career   `json:"career"`
	RequiresConfirmation bool             `json:"requiresConfirmation"`
	Warnings             []map[string]any `json:"warnings"`
	SanitizedData        *models.Career   `json:"sanitizedData"`
}

func setupAPI(t *testing.T, generator handlers.QuestionGenerator) *apiFixture {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	dbCtx, err := repositories.NewDbContext(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbCtx.Close() })
	require.NoError(t, dbCtx.Migrate())
	require.NoError(t, dbCtx.PopulatePlans([]config.PlanConfig{{Name: "Free", JobLimit: 1}}))

	organizations := repositories.NewOrganizationsRepository(dbCtx.DB)
	plan, err := organizations.GetPlanByName(ctx, "Free")
	require.NoError(t, err)
	require.NoError(t, organizations.Add(ctx, &models.Organization{ID: "org-1", Name: "Acme", PlanID: plan.ID}))

	repo := repositories.NewCareersRepository(dbCtx.DB)
	careers := services.NewCareers(repo, organizations, services.NewConfirmationGate(validation.New()), EventBus.New())

	router := NewRouter(handlers.NewCareerHandler(careers, wizard.DefaultRedirectDelay), handlers.NewQuestionHandler(generator), nil)
	return &apiFixture{router: router, repo: repo}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if raw, ok := body.(string); ok {
		payload = []byte(raw)
	} else if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) activeCount(t *testing.T) int64 {
	count, err := f.repo.CountByStatus(context.Background(), "org-1", models.StatusActive)
	require.NoError(t, err)
	return count
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func activeBody() map[string]any {
	return map[string]any{
		"orgID":       "org-1",
		"jobTitle":    "Backend Engineer",
		"description": "<p>Build services</p>",
		"location":    "Makati",
		"workSetup":   "Hybrid",
		"status":      "active",
	}
}

func Test_AddCareer_WhenDescriptionBlank_ShouldReturnFieldError(t *testing.T) {
	f := setupAPI(t, nil)
	body := activeBody()
	body["description"] = ""

	rec := f.do(t, http.MethodPost, "/api/add-career", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decode[response.ErrorEnvelope](t, rec)
	assert.Equal(t, "validation_failed", envelope.Error.Code)
	assert.Contains(t, lo.Map(envelope.Error.Fields, func(e validation.FieldError, _ int) string { return e.Field }), "description")
	assert.Equal(t, int64(0), f.activeCount(t))
}

func Test_AddCareer_WhenInactiveWithTitleOnly_ShouldSucceed(t *testing.T) {
	f := setupAPI(t, nil)

	rec := f.do(t, http.MethodPost, "/api/add-career", map[string]any{
		"orgID":    "org-1",
		"jobTitle": "Draft",
		"status":   "inactive",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[careerResponse](t, rec)
	assert.Equal(t, "Career added successfully", resp.Message)
	require.NotNil(t, resp.Career)
	assert.NotEmpty(t, resp.Career.ID)
	assert.Equal(t, models.StatusInactive, resp.Career.Status)
}

func Test_AddCareer_WhenUnsafe_ShouldAskThenCreateOnce(t *testing.T) {
	f := setupAPI(t, nil)
	body := activeBody()
	body["description"] = `<p>Hello</p><img src=x onerror=alert(1)>`

	rec := f.do(t, http.MethodPost, "/api/add-career", body)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[careerResponse](t, rec)
	assert.True(t, resp.RequiresConfirmation)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "description", resp.Warnings[0]["field"])
	assert.Equal(t, "<p>Hello</p>", resp.SanitizedData.Description)
	assert.Equal(t, int64(0), f.activeCount(t))

	body["confirmSanitization"] = true
	rec = f.do(t, http.MethodPost, "/api/add-career", body)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[careerResponse](t, rec)
	assert.False(t, resp.RequiresConfirmation)
	assert.Equal(t, "<p>Hello</p>", resp.Career.Description)
	assert.Equal(t, int64(1), f.activeCount(t))
}

func Test_AddCareer_WhenLimitReached_ShouldReturnForbidden(t *testing.T) {
	f := setupAPI(t, nil)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/add-career", activeBody()).Code)

	rec := f.do(t, http.MethodPost, "/api/add-career", activeBody())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	envelope := decode[response.ErrorEnvelope](t, rec)
	assert.Equal(t, "job_limit_reached", envelope.Error.Code)
	assert.Equal(t, services.ErrJobLimitReached.Error(), envelope.Error.Message)
}

func Test_AddCareer_WhenBodyMalformed_ShouldReturnBadRequest(t *testing.T) {
	f := setupAPI(t, nil)

	rec := f.do(t, http.MethodPost, "/api/add-career", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decode[response.ErrorEnvelope](t, rec).Error.Code)

	body := activeBody()
	body["orgID"] = "unknown"
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/add-career", body).Code)
}

func Test_UpdateCareer_ShouldMergeFieldsAndIgnoreIdentity(t *testing.T) {
	f := setupAPI(t, nil)
	created := decode[careerResponse](t, f.do(t, http.MethodPost, "/api/add-career", activeBody()))
	require.NotNil(t, created.Career)

	rec := f.do(t, http.MethodPost, "/api/update-career", map[string]any{
		"_id":      created.Career.ID,
		"jobTitle": "Senior Backend Engineer",
		"orgID":    "other",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[careerResponse](t, rec)
	assert.Equal(t, "Career updated successfully", resp.Message)
	assert.Equal(t, "Senior Backend Engineer", resp.Career.Title)
	assert.Equal(t, "org-1", resp.Career.OrgID)
	require.NotNil(t, resp.Redirect)
	assert.Equal(t, "/recruiter-dashboard/careers/manage/"+created.Career.ID, resp.Redirect.URL)

	rec = f.do(t, http.MethodPost, "/api/update-career", map[string]any{"jobTitle": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/update-career", map[string]any{"_id": "missing", "jobTitle": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_UpdateProgress_ShouldUnionCompletedSteps(t *testing.T) {
	f := setupAPI(t, nil)
	created := decode[careerResponse](t, f.do(t, http.MethodPost, "/api/add-career", map[string]any{
		"orgID":          "org-1",
		"jobTitle":       "Draft",
		"status":         "inactive",
		"completedSteps": []int{0},
	}))
	require.NotNil(t, created.Career)

	rec := f.do(t, http.MethodPatch, "/api/update-career", map[string]any{
		"careerID":       created.Career.ID,
		"stepData":       map[string]any{"secretPrompt": "Prefer Go"},
		"currentStep":    2,
		"completedSteps": []int{1, 0},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[careerResponse](t, rec)
	assert.Equal(t, "Progress saved successfully", resp.Message)
	assert.Equal(t, []int{0, 1}, resp.Career.CompletedSteps)
	assert.Equal(t, 2, resp.Career.CurrentStep)
	assert.Equal(t, "Prefer Go", resp.Career.SecretPrompt)
	assert.Nil(t, resp.Redirect)
}

func Test_GetCareer(t *testing.T) {
	f := setupAPI(t, nil)
	created := decode[careerResponse](t, f.do(t, http.MethodPost, "/api/add-career", activeBody()))

	rec := f.do(t, http.MethodGet, "/api/careers/"+created.Career.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend Engineer", decode[careerResponse](t, rec).Career.Title)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/careers/missing", nil).Code)
}

func brokenQuestionBank() []map[string]any {
	return []map[string]any{
		{"id": 1, "category": "Technical", "questionCountToAsk": 9, "questions": []map[string]any{{"id": "q", "question": "Why Go?"}}},
		{"id": 2, "category": "Behavioral", "questions": []map[string]any{{"id": "q", "question": "A conflict?"}}},
	}
}

func Test_SaveCareer_WhenQuestionBankBroken_ShouldRejectAndKeepRecordReopenable(t *testing.T) {
	f := setupAPI(t, nil)
	body := activeBody()
	body["questions"] = brokenQuestionBank()

	rec := f.do(t, http.MethodPost, "/api/add-career", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decode[response.ErrorEnvelope](t, rec)
	assert.Equal(t, "validation_failed", envelope.Error.Code)
	assert.ElementsMatch(t, []string{"questions[0].questionCountToAsk", "questions[1].questions[0].id"},
		lo.Map(envelope.Error.Fields, func(e validation.FieldError, _ int) string { return e.Field }))
	assert.Equal(t, int64(0), f.activeCount(t))

	created := decode[careerResponse](t, f.do(t, http.MethodPost, "/api/add-career", activeBody()))
	require.NotNil(t, created.Career)

	rec = f.do(t, http.MethodPost, "/api/update-career", map[string]any{
		"_id":       created.Career.ID,
		"questions": brokenQuestionBank(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stored := decode[careerResponse](t, f.do(t, http.MethodGet, "/api/careers/"+created.Career.ID, nil))
	require.NotNil(t, stored.Career)
	_, err := wizard.ResumeSession(*stored.Career)
	assert.NoError(t, err)
}

func Test_ListCareers_ShouldReturnOrganizationCareers(t *testing.T) {
	f := setupAPI(t, nil)
	created := decode[careerResponse](t, f.do(t, http.MethodPost, "/api/add-career", activeBody()))
	require.NotNil(t, created.Redirect)
	assert.Equal(t, "/recruiter-dashboard/careers", created.Redirect.URL)
	assert.Equal(t, wizard.DefaultRedirectDelay.Milliseconds(), created.Redirect.DelayMs)

	rec := f.do(t, http.MethodGet, "/api/careers?orgID=org-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[struct {
		Careers []models.Career `json:"careers"`
	}](t, rec)
	require.Len(t, listed.Careers, 1)
	assert.Equal(t, created.Career.ID, listed.Careers[0].ID)

	rec = f.do(t, http.MethodGet, "/api/careers?orgID=org-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"careers":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/careers", nil).Code)
}

func Test_GenerateQuestions(t *testing.T) {
	disabled := setupAPI(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable,
		disabled.do(t, http.MethodPost, "/api/interview-questions/generate", map[string]any{}).Code)

	enabled := setupAPI(t, stubGenerator{questions: []string{"Why Go?"}})
	rec := enabled.do(t, http.MethodPost, "/api/interview-questions/generate", map[string]any{
		"jobTitle": "Engineer", "description": "Go", "category": "Technical",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category":"Technical","questions":["Why Go?"]}`, rec.Body.String())

	failing := setupAPI(t, stubGenerator{err: services.ErrUnknownCategory})
	rec = failing.do(t, http.MethodPost, "/api/interview-questions/generate", map[string]any{"category": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	broken := setupAPI(t, stubGenerator{err: errors.New("upstream")})
	rec = broken.do(t, http.MethodPost, "/api/interview-questions/generate", map[string]any{"category": "x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func Test_Health(t *testing.T) {
	f := setupAPI(t, nil)

	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/metrics", nil).Code)
}

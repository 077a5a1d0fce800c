package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/career-wizard/internal/api/response"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/services"
	"github.com/maxaizer/career-wizard/internal/wizard"
	"net/http"
	"time"
)

type CareerService interface {
	Get(ctx context.Context, id string) (*models.Career, error)
	List(ctx context.Context, orgID string) ([]models.Career, error)
	Create(ctx context.Context, req services.CreateRequest) (*services.Outcome, error)
	Update(ctx context.Context, req services.UpdateRequest) (*services.Outcome, error)
	UpdateProgress(ctx context.Context, req services.ProgressRequest) (*services.Outcome, error)
}

type CareerHandler struct {
	careers       CareerService
	redirectDelay time.Duration
}

func NewCareerHandler(careers CareerService, redirectDelay time.Duration) *CareerHandler {
	return &CareerHandler{careers: careers, redirectDelay: redirectDelay}
}

type saveKind int

const (
	savedCreate saveKind = iota
	savedUpdate
	savedProgress
)

type redirect struct {
	URL     string `json:"url"`
	DelayMs int64  `json:"delayMs"`
}

type createCareerBody struct {
	models.Career
	ConfirmSanitization bool `json:"confirmSanitization"`
}

type progressBody struct {
	CareerID            string       `json:"careerID"`
	StepData            models.Patch `json:"stepData"`
	CurrentStep         int          `json:"currentStep"`
	CompletedSteps      []int        `json:"completedSteps"`
	ConfirmSanitization bool         `json:"confirmSanitization"`
}

// GET /api/careers/:id
func (h *CareerHandler) GetCareer(c *gin.Context) {
	career, err := h.careers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"career": career})
}

// GET /api/careers?orgID=
func (h *CareerHandler) ListCareers(c *gin.Context) {
	careers, err := h.careers.List(c.Request.Context(), c.Query("orgID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if careers == nil {
		careers = []models.Career{}
	}
	response.RespondOK(c, gin.H{"careers": careers})
}

// POST /api/add-career
func (h *CareerHandler) AddCareer(c *gin.Context) {
	var body createCareerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	outcome, err := h.careers.Create(c.Request.Context(), services.CreateRequest{
		Career:    body.Career,
		Confirmed: body.ConfirmSanitization,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondOutcome(c, outcome, "Career added successfully", savedCreate)
}

// POST /api/update-career
func (h *CareerHandler) UpdateCareer(c *gin.Context) {
	var body models.Patch
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var id string
	if raw, ok := body["_id"]; ok {
		if err := json.Unmarshal(raw, &id); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	var confirmed bool
	if raw, ok := body["confirmSanitization"]; ok {
		if err := json.Unmarshal(raw, &confirmed); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	outcome, err := h.careers.Update(c.Request.Context(), services.UpdateRequest{
		ID:        id,
		Fields:    body.Updatable(),
		Confirmed: confirmed,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondOutcome(c, outcome, "Career updated successfully", savedUpdate)
}

// PATCH /api/update-career
func (h *CareerHandler) UpdateProgress(c *gin.Context) {
	var body progressBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	outcome, err := h.careers.UpdateProgress(c.Request.Context(), services.ProgressRequest{
		ID:             body.CareerID,
		StepData:       body.StepData,
		CurrentStep:    body.CurrentStep,
		CompletedSteps: body.CompletedSteps,
		Confirmed:      body.ConfirmSanitization,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.respondOutcome(c, outcome, "Progress saved successfully", savedProgress)
}

func (h *CareerHandler) respondOutcome(c *gin.Context, outcome *services.Outcome, message string, kind saveKind) {
	if outcome.RequiresConfirmation {
		response.RespondOK(c, outcome)
		return
	}

	payload := gin.H{"message": message, "career": outcome.Career}
	if kind != savedProgress {
		payload["redirect"] = redirect{
			URL:     wizard.RedirectURL(kind == savedCreate, outcome.Career.ID),
			DelayMs: h.redirectDelay.Milliseconds(),
		}
	}
	response.RespondOK(c, payload)
}

func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.RespondValidation(c, validationErr.Errors)
	case errors.Is(err, services.ErrMissingCareerID), errors.Is(err, services.ErrMissingOrgID),
		errors.Is(err, services.ErrInvalidFields):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, services.ErrCareerNotFound), errors.Is(err, services.ErrOrganizationNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrJobLimitReached):
		response.RespondError(c, http.StatusForbidden, "job_limit_reached", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "persistence_failed", errors.New("failed to save career"))
	}
}

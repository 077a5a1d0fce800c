package handlers

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/career-wizard/internal/api/response"
	"github.com/maxaizer/career-wizard/internal/services"
	"net/http"
)

type QuestionGenerator interface {
	Generate(ctx context.Context, req services.GenerateRequest) ([]string, error)
}

type QuestionHandler struct {
	generator QuestionGenerator
}

// NewQuestionHandler accepts a nil generator, in which case generation reports 503.
func NewQuestionHandler(generator QuestionGenerator) *QuestionHandler {
	return &QuestionHandler{generator: generator}
}

// POST /api/interview-questions/generate
func (h *QuestionHandler) Generate(c *gin.Context) {
	if h.generator == nil {
		response.RespondError(c, http.StatusServiceUnavailable, "generation_disabled",
			errors.New("question generation is not configured"))
		return
	}

	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	questions, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGenerationInput), errors.Is(err, services.ErrUnknownCategory):
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		default:
			response.RespondError(c, http.StatusBadGateway, "generation_failed", errors.New("failed to generate questions"))
		}
		return
	}

	if questions == nil {
		questions = []string{}
	}
	response.RespondOK(c, gin.H{"category": req.Category, "questions": questions})
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"github.com/maxaizer/career-wizard/internal/logger"
	"github.com/maxaizer/career-wizard/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"strings"
	"time"
)

var (
	ErrGenerationInput = errors.New("job title and description are required to generate questions")
	ErrUnknownCategory = errors.New("unknown question category")
	ErrBadAIResponse   = errors.New("unexpected response from the AI model")
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

type GenerateRequest struct {
	JobTitle    string   `json:"jobTitle"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Existing    []string `json:"existingQuestions"`
}

type generatedQuestions struct {
	Category  string   `json:"category"`
	Questions []string `json:"questions"`
}

type QuestionGenerator struct {
	aiClient    aiClient
	perCategory int
}

func NewQuestionGenerator(aiClient aiClient, perCategory int) *QuestionGenerator {
	if perCategory <= 0 {
		perCategory = 5
	}
	return &QuestionGenerator{aiClient: aiClient, perCategory: perCategory}
}

func (g *QuestionGenerator) Generate(ctx context.Context, req GenerateRequest) ([]string, error) {
	if strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, ErrGenerationInput
	}
	category, ok := lo.Find(models.DefaultCategoryNames, func(name string) bool {
		return strings.EqualFold(name, strings.TrimSpace(req.Category))
	})
	if !ok {
		return nil, ErrUnknownCategory
	}

	start := time.Now()
	response, err := g.aiClient.GenerateResponse(ctx, g.prompt(req, category))
	metrics.QuestionGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("question generation failed: %v", err)
		return nil, errors.Wrap(err, "generate questions")
	}

	var parsed generatedQuestions
	if err = json.Unmarshal([]byte(stripCodeFence(response)), &parsed); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("unparsable AI response %q: %v", response, err)
		return nil, errors.Wrap(ErrBadAIResponse, err.Error())
	}

	seen := lo.SliceToMap(req.Existing, func(q string) (string, struct{}) {
		return normalizeQuestion(q), struct{}{}
	})

	var questions []string
	for _, question := range parsed.Questions {
		question = strings.TrimSpace(question)
		key := normalizeQuestion(question)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		questions = append(questions, question)
		if len(questions) == g.perCategory {
			break
		}
	}

	log.Infof("generated %d %q questions for %q", len(questions), category, req.JobTitle)
	return questions, nil
}

func (g *QuestionGenerator) prompt(req GenerateRequest, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s\n", req.JobTitle)
	fmt.Fprintf(&b, "Job description: %s\n", req.Description)
	fmt.Fprintf(&b, "Write %d interview questions for the %q category.\n", g.perCategory, category)
	if len(req.Existing) > 0 {
		fmt.Fprintf(&b, "Do not repeat these questions: %s\n", strings.Join(req.Existing, " | "))
	}
	b.WriteString(`Reply only with JSON: {"category": "<category>", "questions": ["..."]}`)
	return b.String()
}

func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

func normalizeQuestion(question string) string {
	return strings.ToLower(strings.Join(strings.Fields(question), " "))
}

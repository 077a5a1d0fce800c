package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"sync"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_wizard_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type", "level"},
	)
	CareerSavesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_wizard_saves_total",
			Help: "Total number of persisted career writes.",
		},
		[]string{"action", "status"},
	)
	ConfirmationsRequiredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "career_wizard_confirmations_required_total",
			Help: "Total number of saves paused for sanitization confirmation.",
		},
	)
	ThreatsDetectedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_wizard_threats_detected_total",
			Help: "Total number of fields flagged as carrying unsafe markup.",
		},
		[]string{"field"},
	)
	ValidationFailuresCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_wizard_validation_failures_total",
			Help: "Total number of field validation failures at save time.",
		},
		[]string{"field"},
	)
	JobLimitRejectionsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "career_wizard_job_limit_rejections_total",
			Help: "Total number of creates rejected by the plan job cap.",
		},
	)
	QuestionGenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "career_wizard_question_generation_duration_seconds",
			Help:    "Duration of interview question generation requests in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30},
		},
	)
	CareersGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "career_wizard_careers",
			Help: "Number of stored careers by status.",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(CareerSavesCounter)
		prometheus.MustRegister(ConfirmationsRequiredCounter)
		prometheus.MustRegister(ThreatsDetectedCounter)
		prometheus.MustRegister(ValidationFailuresCounter)
		prometheus.MustRegister(JobLimitRejectionsCounter)
		prometheus.MustRegister(QuestionGenerationDuration)
		prometheus.MustRegister(CareersGauge)
	})
}

// Handler registers the collectors and returns the scrape endpoint.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

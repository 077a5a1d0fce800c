package logger

import (
	"github.com/maxaizer/career-wizard/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const unclassifiedErrorType = "unknown"

// errorCountingHook feeds career_wizard_errors_total. Errors are always counted,
// warnings only when they carry an error_type, e.g. a dropped Redis notification.
type errorCountingHook struct{}

func (h *errorCountingHook) Fire(entry *log.Entry) error {
	errorType, classified := entry.Data[ErrorTypeField].(string)
	if entry.Level == log.WarnLevel && !classified {
		return nil
	}
	if !classified {
		errorType = unclassifiedErrorType
	}

	metrics.ErrorsCounter.WithLabelValues(errorType, entry.Level.String()).Inc()
	return nil
}

func (h *errorCountingHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

func addErrorCountingHook() {
	log.AddHook(&errorCountingHook{})
	log.Info("Prometheus error counting enabled")
}

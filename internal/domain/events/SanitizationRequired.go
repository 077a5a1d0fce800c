package events

import (
	"github.com/maxaizer/career-wizard/internal/safety"
)

var SanitizationRequiredTopic = "SanitizationRequiredEvent"

type SanitizationRequired struct {
	CareerID string
	Warnings []safety.Warning
}

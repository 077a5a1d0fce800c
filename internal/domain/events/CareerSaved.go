package events

import (
	"github.com/maxaizer/career-wizard/internal/domain/models"
)

var CareerSavedTopic = "CareerSavedEvent"

type CareerSaved struct {
	Career  models.Career
	Created bool
	Message string
}

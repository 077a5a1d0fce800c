package events

import (
	"github.com/maxaizer/career-wizard/internal/domain/models"
)

var CareerPublishedTopic = "CareerPublishedEvent"

type CareerPublished struct {
	Career  models.Career
	Created bool
}

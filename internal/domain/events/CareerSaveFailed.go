package events

var CareerSaveFailedTopic = "CareerSaveFailedEvent"

type CareerSaveFailed struct {
	CareerID string
	Message  string
	Err      error
}

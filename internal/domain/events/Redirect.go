package events

var RedirectTopic = "RedirectEvent"

type Redirect struct {
	URL string
}

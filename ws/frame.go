package ws

import (
	"pairchat/domain"
	"pairchat/domain/event"
)

// Frame is the JSON envelope of every server-to-client websocket event.
// Type selects which of the other fields is meaningful.
type Frame struct {
	Type    string            `json:"type"`
	Online  []domain.Identity `json:"online,omitempty"`
	Message *domain.Message   `json:"message,omitempty"`
}

const (
	FramePresence = "presence"
	FrameMessage  = "message"
)

// FromEvent converts a domain event into its wire frame. Unknown events
// produce no frame.
func FromEvent(e event.DomainEvent) (Frame, bool) {
	switch evt := e.(type) {
	case event.PresenceChanged:
		return Frame{Type: FramePresence, Online: evt.Online}, true
	case event.MessageDelivered:
		message := evt.Message
		return Frame{Type: FrameMessage, Message: &message}, true
	}
	return Frame{}, false
}

// Package event defines the events the server pushes over live connections.
package event

import (
	"pairchat/domain"
)

// DomainEvent is anything deliverable to a live connection.
type DomainEvent interface {
	EventName() string
}

// PresenceChanged carries the full, sorted set of identities holding a live
// registered connection. It is recomputed on every registry mutation and
// always replaces the previous snapshot wholesale on the client.
type PresenceChanged struct {
	Online []domain.Identity
}

func (PresenceChanged) EventName() string { return "presence" }

// MessageDelivered carries a persisted message pushed to its receiver's
// live connection.
type MessageDelivered struct {
	Message domain.Message
}

func (MessageDelivered) EventName() string { return "message" }

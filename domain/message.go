// Package domain contains core concepts of the chat system.
// This file defines Message records and related rules.
// Messages are immutable once persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the stable, opaque identifier of a user account.
type Identity string

// Message represents one immutable chat message between two identities.
// At least one of Text or Image is populated. ID and CreatedAt are assigned
// by the durable log at persistence time.
type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   Identity  `json:"senderId"`
	ReceiverID Identity  `json:"receiverId"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"` // asset reference, empty when no image
	CreatedAt  time.Time `json:"createdAt"`
}

// Counterpart returns the other end of the conversation as seen from local.
func (m Message) Counterpart(local Identity) Identity {
	if m.SenderID == local {
		return m.ReceiverID
	}
	return m.SenderID
}

// Package domain contains core concepts of the chat system.
// This file defines User accounts. No runtime, network, or UI logic
// should be added here.
package domain

import "time"

// User is one registered account. The password hash never leaves the
// server side; JSON marshalling skips it.
type User struct {
	ID           Identity  `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profilePic"` // asset reference, empty until uploaded
	CreatedAt    time.Time `json:"createdAt"`
}

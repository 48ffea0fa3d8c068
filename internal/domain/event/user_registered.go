package event

import "time"

// UserRegistered is emitted exactly once per successful registration.
// The confirmation token lets a downstream consumer drive the email
// verification flow; the event never carries the password credential.
type UserRegistered struct {
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	RegisteredAt      time.Time `json:"registered_at"`
	ConfirmationToken string    `json:"confirmation_token"`
}

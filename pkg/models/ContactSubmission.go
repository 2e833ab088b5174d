package models

import (
	"net/mail"
	"strings"
	"time"
)

type ContactSubmission struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (c ContactSubmission) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "name is required")
	}

	if _, err := mail.ParseAddress(c.Email); err != nil {
		return NewValidationError("email", "a valid email address is required")
	}

	if strings.TrimSpace(c.Message) == "" {
		return NewValidationError("message", "message is required")
	}

	return nil
}

package db

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a contact-form submission. Inquiries are stored before any
// email delivery is attempted so a mail outage never loses one.
type Inquiry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

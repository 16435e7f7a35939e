package contact

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNew     Status = "new"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

// Message is an inbound contact-form submission handled from the admin
// dashboard.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func New(name, email, body string) Message {
	return Message{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Body:      body,
		Status:    StatusNew,
		CreatedAt: time.Now().UTC(),
	}
}

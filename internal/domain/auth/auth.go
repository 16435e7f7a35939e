package auth

import "github.com/google/uuid"

// State is the verified identity of the current caller. It is passed
// explicitly to the store, services, and handlers, never looked up
// ambiently, so the core stays testable without HTTP.
type State struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	AvatarURL   string
	IsGuest     bool
	IsAdmin     bool
}

// Guest is the unauthenticated caller. Mutating store actions treat it as a
// sentinel and no-op rather than erroring.
func Guest() State {
	return State{IsGuest: true}
}

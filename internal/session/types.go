package session

import "time"

// Session is the REST-visible session record returned on creation.
type Session struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status,omitempty"`
}

// CreateSessionRequest is the payload for creating a named session.
type CreateSessionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

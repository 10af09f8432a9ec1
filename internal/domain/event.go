package domain

import (
	"context"
	"time"
)

// Event statuses. Only upcoming events accept registrations.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// RegistrationTypeInternal marks events whose registration runs through this service rather than an external link.
const RegistrationTypeInternal = "internal"

// Event is the event being registered for. It is managed elsewhere and read-only here.
// swagger:model Event
type Event struct {
	ID                      string     `json:"id"`
	Title                   string     `json:"title"`
	Date                    *time.Time `json:"date,omitempty"`
	Time                    string     `json:"time,omitempty"`
	Location                string     `json:"location,omitempty"`
	Status                  string     `json:"status"`
	RegistrationDeadline    *time.Time `json:"registration_deadline,omitempty"`
	RegistrationType        string     `json:"registration_type,omitempty"`
	HasInternalRegistration bool       `json:"has_internal_registration"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// AcceptsRegistration reports whether the event is open for internal registration at now.
func (e *Event) AcceptsRegistration(now time.Time) bool {
	if !e.HasInternalRegistration && e.RegistrationType != RegistrationTypeInternal {
		return false
	}
	if e.Status != EventStatusUpcoming {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return false
	}
	return true
}

// EventRepository defines read access to events.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}

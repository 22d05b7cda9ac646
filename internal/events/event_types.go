package events

import (
	"time"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDonorRegistered    EventType = "donor_registered"
	EventDonorStatusChanged EventType = "donor_status_changed"
	EventDonationCompleted  EventType = "donation_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	DonorID   string      `json:"donor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DonorRegisteredPayload payload.
type DonorRegisteredPayload struct {
	FullName   string               `json:"full_name"`
	BloodGroup domain.BloodGroup    `json:"blood_group"`
	Category   domain.DonorCategory `json:"category"`
}

// DonorStatusChangedPayload payload.
type DonorStatusChangedPayload struct {
	OldStatus domain.DonorStatus `json:"old_status"`
	NewStatus domain.DonorStatus `json:"new_status"`
	Reason    string             `json:"reason,omitempty"`
}

// DonationCompletedPayload payload.
type DonationCompletedPayload struct {
	BloodGroup     domain.BloodGroup `json:"blood_group"`
	UnitsCollected int               `json:"units_collected"`
}

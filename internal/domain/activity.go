package domain

import "time"

// ActivityEvent is an append-only feed entry recorded whenever a donor
// registration changes status.
type ActivityEvent struct {
	ID         string
	DonorID    string
	DonorName  string
	BloodGroup BloodGroup
	Status     DonorStatus
	Detail     string
	OccurredAt time.Time
}

package dto

import (
	"time"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

// ActivityEventResponse is one entry of the recent-activity feed.
type ActivityEventResponse struct {
	ID         string             `json:"id"`
	DonorName  string             `json:"donor_name"`
	BloodGroup domain.BloodGroup  `json:"blood_group"`
	Status     domain.DonorStatus `json:"status"`
	Detail     string             `json:"detail,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

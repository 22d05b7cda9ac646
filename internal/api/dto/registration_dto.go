package dto

import (
	"time"

	"github.com/spec-kit/blood-drive-service/internal/domain"
	"github.com/spec-kit/blood-drive-service/internal/eligibility"
)

// CreateRegistrationRequest payload for the public registration form.
type CreateRegistrationRequest struct {
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Category          string  `json:"category"`
	Branch            *string `json:"branch"`
	Year              *string `json:"year"`
	RollNo            *string `json:"roll_no"`
	Age               int     `json:"age"`
	WeightKg          float64 `json:"weight_kg"`
	BloodGroup        string  `json:"blood_group"`
	MedicalConditions *string `json:"medical_conditions"`
}

// DonorSummary is the list-view projection of a registration.
type DonorSummary struct {
	ID           string               `json:"id"`
	FullName     string               `json:"full_name"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	Category     domain.DonorCategory `json:"category"`
	BloodGroup   domain.BloodGroup    `json:"blood_group"`
	Age          int                  `json:"age"`
	WeightKg     float64              `json:"weight_kg"`
	Status       domain.DonorStatus   `json:"status"`
	RegisteredAt time.Time            `json:"registered_at"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
}

// DonorDetailResponse is the full record plus derived eligibility, as shown
// on the verification screen.
type DonorDetailResponse struct {
	ID                string               `json:"id"`
	FullName          string               `json:"full_name"`
	Email             string               `json:"email"`
	Phone             string               `json:"phone"`
	Category          domain.DonorCategory `json:"category"`
	Branch            *string              `json:"branch,omitempty"`
	Year              *string              `json:"year,omitempty"`
	RollNo            *string              `json:"roll_no,omitempty"`
	Age               int                  `json:"age"`
	WeightKg          float64              `json:"weight_kg"`
	BloodGroup        domain.BloodGroup    `json:"blood_group"`
	MedicalConditions *string              `json:"medical_conditions,omitempty"`
	Status            domain.DonorStatus   `json:"status"`
	RegisteredAt      time.Time            `json:"registered_at"`
	ApprovedAt        *time.Time           `json:"approved_at,omitempty"`
	CompletedAt       *time.Time           `json:"completed_at,omitempty"`
	RejectionReason   *string              `json:"rejection_reason,omitempty"`
	UnitsCollected    *int                 `json:"units_collected,omitempty"`
	OperatorNotes     *string              `json:"operator_notes,omitempty"`
	Eligibility       eligibility.Result   `json:"eligibility"`
}

// PagedDonorsResponse carries one page plus the total match count for
// pagination controls.
type PagedDonorsResponse struct {
	Items    []DonorSummary `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// BulkStatusRequest applies approve/reject to a list of ids.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
	Reason string   `json:"reason,omitempty"`
}

// CompleteDonationRequest records a finished donation.
type CompleteDonationRequest struct {
	UnitsCollected int    `json:"units_collected"`
	Notes          string `json:"notes,omitempty"`
}

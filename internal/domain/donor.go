package domain

import (
	"fmt"
	"strings"
	"time"
)

// DonorStatus enumerates lifecycle states for donor registrations.
type DonorStatus string

const (
	StatusPending   DonorStatus = "pending"
	StatusApproved  DonorStatus = "approved"
	StatusRejected  DonorStatus = "rejected"
	StatusCompleted DonorStatus = "completed"
)

// ParseStatus normalizes an externally supplied status string into the closed enum.
func ParseStatus(raw string) (DonorStatus, error) {
	switch DonorStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// IsTerminal reports whether no further transition is permitted from s.
func (s DonorStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// BloodGroup is one of the 8 canonical ABO/Rh combinations.
type BloodGroup string

const (
	BloodAPos  BloodGroup = "A+"
	BloodANeg  BloodGroup = "A-"
	BloodBPos  BloodGroup = "B+"
	BloodBNeg  BloodGroup = "B-"
	BloodABPos BloodGroup = "AB+"
	BloodABNeg BloodGroup = "AB-"
	BloodOPos  BloodGroup = "O+"
	BloodONeg  BloodGroup = "O-"
)

// BloodGroups returns all canonical groups in display order.
func BloodGroups() []BloodGroup {
	return []BloodGroup{
		BloodAPos, BloodANeg,
		BloodBPos, BloodBNeg,
		BloodABPos, BloodABNeg,
		BloodOPos, BloodONeg,
	}
}

// ParseBloodGroup validates and canonicalizes a blood group string.
func ParseBloodGroup(raw string) (BloodGroup, error) {
	candidate := BloodGroup(strings.ToUpper(strings.TrimSpace(raw)))
	for _, group := range BloodGroups() {
		if candidate == group {
			return group, nil
		}
	}
	return "", fmt.Errorf("unknown blood group %q", raw)
}

// DonorCategory classifies who the donor is on campus.
type DonorCategory string

const (
	CategoryStudent  DonorCategory = "Student"
	CategoryFaculty  DonorCategory = "Faculty"
	CategoryStaff    DonorCategory = "Staff"
	CategoryExternal DonorCategory = "External"
)

// ParseCategory normalizes a category string.
func ParseCategory(raw string) (DonorCategory, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "student":
		return CategoryStudent, nil
	case "faculty":
		return CategoryFaculty, nil
	case "staff":
		return CategoryStaff, nil
	case "external":
		return CategoryExternal, nil
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// DonorRegistration is the aggregate for a single donation-drive submission.
// Age, weight and blood group are captured at submission time and stay
// immutable once the record leaves pending, so eligibility remains auditable.
type DonorRegistration struct {
	ID string

	FullName string
	Email    string
	Phone    string
	Category DonorCategory
	Branch   *string
	Year     *string
	RollNo   *string

	Age               int
	WeightKg          float64
	BloodGroup        BloodGroup
	MedicalConditions *string

	Status          DonorStatus
	RegisteredAt    time.Time
	ApprovedAt      *time.Time
	CompletedAt     *time.Time
	RejectionReason *string

	UnitsCollected *int
	OperatorNotes  *string
}

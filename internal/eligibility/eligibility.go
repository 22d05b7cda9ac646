// Package eligibility computes derived donor eligibility flags from a
// registration snapshot. It is pure: callers supply the prior-donation
// timestamp (if any) and the evaluation time.
package eligibility

import (
	"time"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

const (
	MinAge = 18
	MaxAge = 65

	// MinWeightKg is an exclusive bound: exactly 45 kg is not eligible.
	// This mirrors the published eligibility checklist, which uses a
	// strict greater-than check.
	MinWeightKg = 45.0

	// DonationInterval is the minimum gap between completed donations
	// for the same donor contact.
	DonationInterval = 90 * 24 * time.Hour
)

// Result carries the three independent eligibility flags.
type Result struct {
	AgeEligible      bool `json:"age_eligible"`
	WeightEligible   bool `json:"weight_eligible"`
	IntervalEligible bool `json:"interval_eligible"`
}

// Eligible reports whether all criteria pass.
func (r Result) Eligible() bool {
	return r.AgeEligible && r.WeightEligible && r.IntervalEligible
}

// Evaluate computes eligibility for a donor snapshot. lastCompleted is the
// most recent completion timestamp for the same email or phone, nil when the
// donor has never completed a donation (or when identity linkage is not
// available, in which case the interval flag degrades to true).
func Evaluate(donor *domain.DonorRegistration, lastCompleted *time.Time, now time.Time) Result {
	result := Result{
		AgeEligible:      donor.Age >= MinAge && donor.Age <= MaxAge,
		WeightEligible:   donor.WeightKg > MinWeightKg,
		IntervalEligible: true,
	}
	if lastCompleted != nil && now.Sub(*lastCompleted) < DonationInterval {
		result.IntervalEligible = false
	}
	return result
}

package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

func donorWith(age int, weight float64) *domain.DonorRegistration {
	return &domain.DonorRegistration{
		FullName:   "Asha",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		Category:   domain.CategoryStaff,
		Age:        age,
		WeightKg:   weight,
		BloodGroup: domain.BloodOPos,
		Status:     domain.StatusPending,
	}
}

func TestAgeBounds(t *testing.T) {
	now := time.Now()

	cases := []struct {
		age      int
		eligible bool
	}{
		{17, false},
		{18, true},
		{24, true},
		{65, true},
		{66, false},
	}
	for _, tc := range cases {
		result := Evaluate(donorWith(tc.age, 60), nil, now)
		assert.Equal(t, tc.eligible, result.AgeEligible, "age %d", tc.age)
	}
}

func TestWeightBoundIsExclusive(t *testing.T) {
	now := time.Now()

	assert.False(t, Evaluate(donorWith(24, 44.5), nil, now).WeightEligible)
	// exactly 45 kg fails the strict check
	assert.False(t, Evaluate(donorWith(24, 45.0), nil, now).WeightEligible)
	assert.True(t, Evaluate(donorWith(24, 45.1), nil, now).WeightEligible)
	assert.True(t, Evaluate(donorWith(24, 60), nil, now).WeightEligible)
}

func TestDonationInterval(t *testing.T) {
	now := time.Now()
	donor := donorWith(24, 60)

	assert.True(t, Evaluate(donor, nil, now).IntervalEligible,
		"no prior completion means eligible")

	recent := now.Add(-30 * 24 * time.Hour)
	assert.False(t, Evaluate(donor, &recent, now).IntervalEligible)

	boundary := now.Add(-DonationInterval)
	assert.True(t, Evaluate(donor, &boundary, now).IntervalEligible,
		"exactly 90 days ago is eligible again")

	old := now.Add(-120 * 24 * time.Hour)
	assert.True(t, Evaluate(donor, &old, now).IntervalEligible)
}

func TestEligibleRequiresAllFlags(t *testing.T) {
	now := time.Now()

	assert.True(t, Evaluate(donorWith(24, 60), nil, now).Eligible())
	assert.False(t, Evaluate(donorWith(16, 60), nil, now).Eligible())
	assert.False(t, Evaluate(donorWith(24, 40), nil, now).Eligible())
}

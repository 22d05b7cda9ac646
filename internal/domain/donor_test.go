package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusNormalizesCase(t *testing.T) {
	for raw, want := range map[string]DonorStatus{
		"pending":    StatusPending,
		"Approved":   StatusApproved,
		" REJECTED ": StatusRejected,
		"Completed":  StatusCompleted,
	} {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("donated")
	assert.Error(t, err)
}

func TestStatusTerminality(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestParseBloodGroup(t *testing.T) {
	got, err := ParseBloodGroup(" ab+ ")
	require.NoError(t, err)
	assert.Equal(t, BloodABPos, got)

	for _, raw := range []string{"C+", "O", "", "A +"} {
		_, err := ParseBloodGroup(raw)
		assert.Error(t, err, raw)
	}
}

func TestBloodGroupsCoversAllEight(t *testing.T) {
	groups := BloodGroups()
	require.Len(t, groups, 8)
	seen := map[BloodGroup]bool{}
	for _, group := range groups {
		seen[group] = true
	}
	assert.Len(t, seen, 8)
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("student")
	require.NoError(t, err)
	assert.Equal(t, CategoryStudent, got)

	got, err = ParseCategory(" EXTERNAL ")
	require.NoError(t, err)
	assert.Equal(t, CategoryExternal, got)

	_, err = ParseCategory("alumni")
	assert.Error(t, err)
}

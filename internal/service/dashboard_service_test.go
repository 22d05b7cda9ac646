package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blood-drive-service/internal/domain"
	"github.com/spec-kit/blood-drive-service/internal/events"
	"github.com/spec-kit/blood-drive-service/internal/repository"
)

func newDashboardFixture() (*DashboardService, *RegistrationService) {
	store := repository.NewMemoryStore()
	registrations := NewRegistrationService(RegistrationDependencies{
		DonorRepo:  store,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	dashboard := NewDashboardService(DashboardDependencies{
		DonorRepo:    store,
		ActivityRepo: store,
	}, zap.NewNop())
	return dashboard, registrations
}

func completeDonor(t *testing.T, svc *RegistrationService, group string) {
	t.Helper()
	ctx := context.Background()
	input := validInput()
	input.BloodGroup = group
	input.Email = group + "-donor@example.com"
	donor, err := svc.Register(ctx, input)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, donor.ID, "")
	require.NoError(t, err)
	_, err = svc.Complete(ctx, donor.ID, 2, "")
	require.NoError(t, err)
}

func TestDashboardStats(t *testing.T) {
	dashboard, registrations := newDashboardFixture()
	ctx := context.Background()

	stats, err := dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{}, stats, "empty store yields all zeros")

	completeDonor(t, registrations, "O+")
	_, err = registrations.Register(ctx, validInput())
	require.NoError(t, err)
	rejectedInput := validInput()
	rejectedInput.Email = "reject-me@example.com"
	toReject, err := registrations.Register(ctx, rejectedInput)
	require.NoError(t, err)
	_, err = registrations.Reject(ctx, toReject.ID, "duplicate entry", "")
	require.NoError(t, err)

	stats, err = dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{
		Pending:   1,
		Rejected:  1,
		Completed: 1,
		Total:     3,
	}, stats)
}

func TestDashboardInventoryZeroFilled(t *testing.T) {
	dashboard, registrations := newDashboardFixture()
	ctx := context.Background()

	inventory, err := dashboard.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 8)
	for _, group := range domain.BloodGroups() {
		assert.Equal(t, 0, inventory[group])
	}

	completeDonor(t, registrations, "AB-")
	completeDonor(t, registrations, "O+")

	inventory, err = dashboard.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 8, "groups with no donations stay present")
	assert.Equal(t, 2, inventory[domain.BloodABNeg])
	assert.Equal(t, 2, inventory[domain.BloodOPos])
	assert.Equal(t, 0, inventory[domain.BloodBNeg])
}

func TestDashboardRecentActivity(t *testing.T) {
	dashboard, registrations := newDashboardFixture()
	ctx := context.Background()

	completeDonor(t, registrations, "A+")

	feed, err := dashboard.RecentActivity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2, "approval and completion are both recorded")
	assert.Equal(t, domain.StatusCompleted, feed[0].Status, "newest first")
	assert.Equal(t, domain.StatusApproved, feed[1].Status)

	feed, err = dashboard.RecentActivity(ctx, 1)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.StatusCompleted, feed[0].Status)
}

func TestDashboardTrendZeroFillsWindow(t *testing.T) {
	dashboard, registrations := newDashboardFixture()
	ctx := context.Background()

	completeDonor(t, registrations, "B+")

	trend, err := dashboard.Trend(ctx, 7)
	require.NoError(t, err)
	require.Len(t, trend, 7, "every day of the window is present")

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, trend[6].Date, "window ends today")
	assert.Equal(t, 1, trend[6].Completed)
	for _, day := range trend[:6] {
		assert.Equal(t, 0, day.Completed)
	}

	trend, err = dashboard.Trend(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, trend, 7, "default window is 7 days")
}

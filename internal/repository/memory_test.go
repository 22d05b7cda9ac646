package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newDonor(name string, group domain.BloodGroup) *domain.DonorRegistration {
	donor := &domain.DonorRegistration{
		FullName:   name,
		Email:      name + "@example.com",
		Phone:      "9876543210",
		Category:   domain.CategoryStaff,
		Age:        30,
		WeightKg:   70,
		BloodGroup: group,
		Status:     domain.StatusPending,
	}
	s.Require().NoError(s.store.Create(s.ctx, donor))
	return donor
}

func (s *MemoryStoreSuite) transition(donor *domain.DonorRegistration, from, to domain.DonorStatus) *domain.DonorRegistration {
	now := time.Now().UTC()
	t := StatusTransition{
		DonorID: donor.ID,
		From:    from,
		To:      to,
		Activity: domain.ActivityEvent{
			DonorID:    donor.ID,
			DonorName:  donor.FullName,
			BloodGroup: donor.BloodGroup,
			Status:     to,
			OccurredAt: now,
		},
	}
	switch to {
	case domain.StatusApproved:
		t.ApprovedAt = &now
	case domain.StatusCompleted:
		units := 1
		t.CompletedAt = &now
		t.UnitsCollected = &units
	}
	updated, err := s.store.Transition(s.ctx, t)
	s.Require().NoError(err)
	return updated
}

func (s *MemoryStoreSuite) TestCreateAndGetRoundTrip() {
	donor := s.newDonor("asha", domain.BloodOPos)
	s.NotEmpty(donor.ID)
	s.False(donor.RegisteredAt.IsZero())

	found, err := s.store.GetByID(s.ctx, donor.ID)
	s.Require().NoError(err)
	s.Equal(donor.FullName, found.FullName)
	s.Equal(domain.StatusPending, found.Status)
	s.Equal(domain.BloodOPos, found.BloodGroup)
}

func (s *MemoryStoreSuite) TestGetUnknownID() {
	_, err := s.store.GetByID(s.ctx, "no-such-id")
	s.Require().ErrorIs(err, ErrDonorNotFound)
}

func (s *MemoryStoreSuite) TestReturnedRecordIsACopy() {
	donor := s.newDonor("asha", domain.BloodOPos)

	found, err := s.store.GetByID(s.ctx, donor.ID)
	s.Require().NoError(err)
	found.Status = domain.StatusCompleted

	again, err := s.store.GetByID(s.ctx, donor.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, again.Status)
}

func (s *MemoryStoreSuite) TestTransitionRequiresCurrentStatus() {
	donor := s.newDonor("asha", domain.BloodOPos)
	s.transition(donor, domain.StatusPending, domain.StatusApproved)

	_, err := s.store.Transition(s.ctx, StatusTransition{
		DonorID: donor.ID,
		From:    domain.StatusPending,
		To:      domain.StatusApproved,
	})
	s.Require().ErrorIs(err, ErrStatusConflict)
}

func (s *MemoryStoreSuite) TestTransitionUnknownID() {
	_, err := s.store.Transition(s.ctx, StatusTransition{
		DonorID: "no-such-id",
		From:    domain.StatusPending,
		To:      domain.StatusApproved,
	})
	s.Require().ErrorIs(err, ErrDonorNotFound)
}

func (s *MemoryStoreSuite) TestConcurrentTransitionsOneWinner() {
	donor := s.newDonor("asha", domain.BloodOPos)
	s.transition(donor, domain.StatusPending, domain.StatusApproved)

	now := time.Now().UTC()
	units := 1
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.store.Transition(s.ctx, StatusTransition{
				DonorID:        donor.ID,
				From:           domain.StatusApproved,
				To:             domain.StatusCompleted,
				CompletedAt:    &now,
				UnitsCollected: &units,
				Activity: domain.ActivityEvent{
					DonorID:    donor.ID,
					DonorName:  donor.FullName,
					BloodGroup: donor.BloodGroup,
					Status:     domain.StatusCompleted,
					OccurredAt: now,
				},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.Require().ErrorIs(err, ErrStatusConflict)
		}
	}
	s.Equal(1, succeeded)

	inventory, err := s.store.UnitsByBloodGroup(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, inventory[domain.BloodOPos])
}

func (s *MemoryStoreSuite) TestSearchFiltersAndPagination() {
	for i := 0; i < 3; i++ {
		donor := s.newDonor("donor", domain.BloodAPos)
		s.transition(donor, domain.StatusPending, domain.StatusApproved)
		s.transition(donor, domain.StatusApproved, domain.StatusCompleted)
	}
	s.newDonor("pending-donor", domain.BloodAPos)
	s.newDonor("other", domain.BloodBNeg)

	completed := domain.StatusCompleted
	group := domain.BloodAPos
	results, total, err := s.store.Search(s.ctx, DonorFilter{
		Status:     &completed,
		BloodGroup: &group,
		Page:       1,
		PageSize:   2,
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(results, 2)
	for _, donor := range results {
		s.Equal(domain.StatusCompleted, donor.Status)
		s.Equal(domain.BloodAPos, donor.BloodGroup)
	}

	results, total, err = s.store.Search(s.ctx, DonorFilter{
		Status:     &completed,
		BloodGroup: &group,
		Page:       2,
		PageSize:   2,
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Len(results, 1)
}

func (s *MemoryStoreSuite) TestSearchByTerm() {
	s.newDonor("rahul", domain.BloodOPos)
	s.newDonor("priya", domain.BloodAPos)

	term := "RAH"
	results, total, err := s.store.Search(s.ctx, DonorFilter{SearchTerm: &term})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(results, 1)
	s.Equal("rahul", results[0].FullName)
}

func (s *MemoryStoreSuite) TestCompletedSortedByCompletionTime() {
	first := s.newDonor("first", domain.BloodOPos)
	s.transition(first, domain.StatusPending, domain.StatusApproved)
	s.transition(first, domain.StatusApproved, domain.StatusCompleted)

	second := s.newDonor("second", domain.BloodOPos)
	s.transition(second, domain.StatusPending, domain.StatusApproved)

	// force a later completion timestamp
	later := time.Now().UTC().Add(time.Minute)
	units := 1
	_, err := s.store.Transition(s.ctx, StatusTransition{
		DonorID:        second.ID,
		From:           domain.StatusApproved,
		To:             domain.StatusCompleted,
		CompletedAt:    &later,
		UnitsCollected: &units,
		Activity:       domain.ActivityEvent{DonorID: second.ID, Status: domain.StatusCompleted, OccurredAt: later},
	})
	s.Require().NoError(err)

	completed := domain.StatusCompleted
	results, _, err := s.store.Search(s.ctx, DonorFilter{Status: &completed})
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("second", results[0].FullName)
	s.Equal("first", results[1].FullName)
}

func (s *MemoryStoreSuite) TestLastCompletionForContact() {
	donor := s.newDonor("asha", domain.BloodOPos)
	s.transition(donor, domain.StatusPending, domain.StatusApproved)
	s.transition(donor, domain.StatusApproved, domain.StatusCompleted)

	last, err := s.store.LastCompletionForContact(s.ctx, "ASHA@example.com", "", "another-id")
	s.Require().NoError(err)
	s.Require().NotNil(last, "email match is case-insensitive")

	last, err = s.store.LastCompletionForContact(s.ctx, "asha@example.com", "", donor.ID)
	s.Require().NoError(err)
	s.Nil(last, "the donor's own record is excluded")

	last, err = s.store.LastCompletionForContact(s.ctx, "unknown@example.com", "0000000000", "x")
	s.Require().NoError(err)
	s.Nil(last)
}

func (s *MemoryStoreSuite) TestAggregates() {
	donor := s.newDonor("asha", domain.BloodOPos)
	s.transition(donor, domain.StatusPending, domain.StatusApproved)
	s.transition(donor, domain.StatusApproved, domain.StatusCompleted)
	s.newDonor("pending", domain.BloodAPos)

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[domain.StatusCompleted])
	s.Equal(1, counts[domain.StatusPending])

	points, err := s.store.CompletionsByDay(s.ctx, time.Now().UTC().Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Require().Len(points, 1)
	s.Equal(1, points[0].Completed)

	feed, err := s.store.ListRecent(s.ctx, 5)
	s.Require().NoError(err)
	s.Len(feed, 2)
	s.Equal(domain.StatusCompleted, feed[0].Status, "newest first")
}

package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

// MemoryStore is an in-memory implementation of DonorRepository and
// ActivityRepository. It backs tests and DSN-less development runs; a single
// mutex gives it the same per-record transition atomicity the Postgres store
// gets from conditional updates.
type MemoryStore struct {
	mu       sync.RWMutex
	donors   map[string]*domain.DonorRegistration
	activity []domain.ActivityEvent
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{donors: make(map[string]*domain.DonorRegistration)}
}

var _ DonorRepository = (*MemoryStore)(nil)
var _ ActivityRepository = (*MemoryStore)(nil)

func (m *MemoryStore) Create(ctx context.Context, donor *domain.DonorRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donor.ID = uuid.NewString()
	donor.RegisteredAt = time.Now().UTC()
	stored := *donor
	m.donors[donor.ID] = &stored
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.DonorRegistration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	donor, ok := m.donors[id]
	if !ok {
		return nil, ErrDonorNotFound
	}
	copied := *donor
	return &copied, nil
}

func (m *MemoryStore) Search(ctx context.Context, filter DonorFilter) ([]domain.DonorRegistration, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []domain.DonorRegistration
	for _, donor := range m.donors {
		if matchesFilter(donor, filter) {
			matches = append(matches, *donor)
		}
	}

	if filter.SortByCompletion() {
		sort.Slice(matches, func(i, j int) bool {
			return completionTime(matches[i]).After(completionTime(matches[j]))
		})
	} else {
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].RegisteredAt.After(matches[j].RegisteredAt)
		})
	}

	total := len(matches)
	offset := filter.Offset()
	if offset >= total {
		return []domain.DonorRegistration{}, total, nil
	}
	end := offset + filter.Limit()
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (m *MemoryStore) Transition(ctx context.Context, transition StatusTransition) (*domain.DonorRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	donor, ok := m.donors[transition.DonorID]
	if !ok {
		return nil, ErrDonorNotFound
	}
	if donor.Status != transition.From {
		return nil, ErrStatusConflict
	}

	donor.Status = transition.To
	if transition.ApprovedAt != nil {
		donor.ApprovedAt = transition.ApprovedAt
	}
	donor.CompletedAt = transition.CompletedAt
	if transition.RejectionReason != nil {
		donor.RejectionReason = transition.RejectionReason
	}
	if transition.UnitsCollected != nil {
		donor.UnitsCollected = transition.UnitsCollected
	}
	if transition.OperatorNotes != nil {
		donor.OperatorNotes = transition.OperatorNotes
	}

	entry := transition.Activity
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	m.activity = append(m.activity, entry)

	copied := *donor
	return &copied, nil
}

func (m *MemoryStore) LastCompletionForContact(ctx context.Context, email, phone, excludeID string) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last *time.Time
	for _, donor := range m.donors {
		if donor.ID == excludeID || donor.Status != domain.StatusCompleted || donor.CompletedAt == nil {
			continue
		}
		sameEmail := strings.EqualFold(donor.Email, email)
		samePhone := phone != "" && donor.Phone == phone
		if !sameEmail && !samePhone {
			continue
		}
		if last == nil || donor.CompletedAt.After(*last) {
			completedAt := *donor.CompletedAt
			last = &completedAt
		}
	}
	return last, nil
}

func (m *MemoryStore) CountByStatus(ctx context.Context) (map[domain.DonorStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[domain.DonorStatus]int)
	for _, donor := range m.donors {
		counts[donor.Status]++
	}
	return counts, nil
}

func (m *MemoryStore) UnitsByBloodGroup(ctx context.Context) (map[domain.BloodGroup]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	units := make(map[domain.BloodGroup]int)
	for _, donor := range m.donors {
		if donor.Status != domain.StatusCompleted || donor.UnitsCollected == nil {
			continue
		}
		units[donor.BloodGroup] += *donor.UnitsCollected
	}
	return units, nil
}

func (m *MemoryStore) CompletionsByDay(ctx context.Context, from time.Time) ([]TrendPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDay := make(map[time.Time]int)
	for _, donor := range m.donors {
		if donor.Status != domain.StatusCompleted || donor.CompletedAt == nil {
			continue
		}
		if donor.CompletedAt.Before(from) {
			continue
		}
		day := donor.CompletedAt.UTC().Truncate(24 * time.Hour)
		byDay[day]++
	}

	points := make([]TrendPoint, 0, len(byDay))
	for day, count := range byDay {
		points = append(points, TrendPoint{Day: day, Completed: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Day.Before(points[j].Day) })
	return points, nil
}

func (m *MemoryStore) ListRecent(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}
	events := make([]domain.ActivityEvent, len(m.activity))
	copy(events, m.activity)
	sort.Slice(events, func(i, j int) bool { return events[i].OccurredAt.After(events[j].OccurredAt) })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func matchesFilter(donor *domain.DonorRegistration, filter DonorFilter) bool {
	if filter.Status != nil && donor.Status != *filter.Status {
		return false
	}
	if filter.BloodGroup != nil && donor.BloodGroup != *filter.BloodGroup {
		return false
	}
	if filter.Category != nil && donor.Category != *filter.Category {
		return false
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		if term != "" {
			haystack := strings.ToLower(donor.FullName + " " + donor.Email + " " + donor.Phone)
			if !strings.Contains(haystack, term) {
				return false
			}
		}
	}
	return true
}

func completionTime(donor domain.DonorRegistration) time.Time {
	if donor.CompletedAt == nil {
		return time.Time{}
	}
	return *donor.CompletedAt
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/blood-drive-service/internal/domain"
)

// Sentinel errors shared by all store implementations.
var (
	ErrDonorNotFound  = errors.New("donor not found")
	ErrStatusConflict = errors.New("donor status changed concurrently")
)

// DonorFilter captures admin search parameters. Nil fields mean "all".
type DonorFilter struct {
	Status     *domain.DonorStatus
	BloodGroup *domain.BloodGroup
	Category   *domain.DonorCategory
	SearchTerm *string
	Page       int
	PageSize   int
}

// Limit returns the effective page size.
func (f DonorFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	return f.PageSize
}

// Offset returns the row offset for the 1-indexed page.
func (f DonorFilter) Offset() int {
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// SortByCompletion reports whether results should be ordered by completion
// time, used for "most recently donated" views.
func (f DonorFilter) SortByCompletion() bool {
	return f.Status != nil && *f.Status == domain.StatusCompleted
}

// StatusTransition describes an atomic lifecycle step. The store applies the
// field changes and appends the activity entry in a single unit: either all
// of it commits or none does. The update is conditional on the record still
// being in the From status, so a lost race surfaces as ErrStatusConflict.
type StatusTransition struct {
	DonorID string
	From    domain.DonorStatus
	To      domain.DonorStatus

	ApprovedAt      *time.Time
	CompletedAt     *time.Time
	RejectionReason *string
	UnitsCollected  *int
	OperatorNotes   *string

	Activity domain.ActivityEvent
}

// TrendPoint is one day of the completion trend.
type TrendPoint struct {
	Day       time.Time
	Completed int
}

// DonorRepository encapsulates donor registration persistence.
type DonorRepository interface {
	Create(ctx context.Context, donor *domain.DonorRegistration) error
	GetByID(ctx context.Context, id string) (*domain.DonorRegistration, error)
	Search(ctx context.Context, filter DonorFilter) ([]domain.DonorRegistration, int, error)
	Transition(ctx context.Context, transition StatusTransition) (*domain.DonorRegistration, error)

	// LastCompletionForContact returns the most recent completion timestamp
	// among completed registrations sharing the given email or phone,
	// excluding excludeID. Nil when there is none.
	LastCompletionForContact(ctx context.Context, email, phone, excludeID string) (*time.Time, error)

	CountByStatus(ctx context.Context) (map[domain.DonorStatus]int, error)
	UnitsByBloodGroup(ctx context.Context) (map[domain.BloodGroup]int, error)
	CompletionsByDay(ctx context.Context, from time.Time) ([]TrendPoint, error)
}

// ActivityRepository reads the transition activity feed. Entries are written
// by DonorRepository.Transition as part of the same atomic step.
type ActivityRepository interface {
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityEvent, error)
}

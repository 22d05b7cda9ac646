package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blood-drive-service/internal/domain"
	"github.com/spec-kit/blood-drive-service/internal/eligibility"
	"github.com/spec-kit/blood-drive-service/internal/events"
	"github.com/spec-kit/blood-drive-service/internal/repository"
	apperrors "github.com/spec-kit/blood-drive-service/pkg/util/errorutil"
)

// allowedTransitions is the donor lifecycle: pending can be reviewed either
// way, approved donors can complete or fail screening, and rejected/completed
// are terminal.
var allowedTransitions = map[domain.DonorStatus][]domain.DonorStatus{
	domain.StatusPending:   {domain.StatusApproved, domain.StatusRejected},
	domain.StatusApproved:  {domain.StatusCompleted, domain.StatusRejected},
	domain.StatusRejected:  {},
	domain.StatusCompleted: {},
}

func isValidTransition(current, next domain.DonorStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

var rollNoPattern = regexp.MustCompile(`^\d{5}$`)

// RegistrationService coordinates the donor lifecycle.
type RegistrationService struct {
	donors     repository.DonorRepository
	dispatcher events.Dispatcher
}

// RegistrationDependencies bundles collaborators for the service.
type RegistrationDependencies struct {
	DonorRepo  repository.DonorRepository
	Dispatcher events.Dispatcher
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		donors:     deps.DonorRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RegistrationInput describes a public registration submission.
type RegistrationInput struct {
	FullName          string
	Email             string
	Phone             string
	Category          string
	Branch            *string
	Year              *string
	RollNo            *string
	Age               int
	WeightKg          float64
	BloodGroup        string
	MedicalConditions *string
}

// Register validates a submission and persists it with status pending.
// Age and weight must be positive and well-formed, but the 18-65 and 45 kg
// eligibility bands are reported as flags, not enforced at intake.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput) (*domain.DonorRegistration, error) {
	fields := map[string]any{}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fields["full_name"] = "required"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "valid email required"
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		fields["phone"] = "required"
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		fields["category"] = "must be one of Student, Faculty, Staff, External"
	}
	bloodGroup, err := domain.ParseBloodGroup(input.BloodGroup)
	if err != nil {
		fields["blood_group"] = "must be one of the 8 canonical groups"
	}
	if input.Age <= 0 {
		fields["age"] = "must be positive"
	}
	if input.WeightKg <= 0 {
		fields["weight_kg"] = "must be positive"
	}

	if category == domain.CategoryStudent {
		if input.RollNo == nil || !rollNoPattern.MatchString(strings.TrimSpace(*input.RollNo)) {
			fields["roll_no"] = "5-digit roll number required for students"
		}
		if input.Year == nil || strings.TrimSpace(*input.Year) == "" {
			fields["year"] = "academic year required for students"
		}
	}

	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", fields)
	}

	donor := &domain.DonorRegistration{
		FullName:          fullName,
		Email:             email,
		Phone:             phone,
		Category:          category,
		Branch:            input.Branch,
		Age:               input.Age,
		WeightKg:          input.WeightKg,
		BloodGroup:        bloodGroup,
		MedicalConditions: input.MedicalConditions,
		Status:            domain.StatusPending,
	}
	if category == domain.CategoryStudent {
		donor.Year = input.Year
		donor.RollNo = input.RollNo
	}

	if err := s.donors.Create(ctx, donor); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventDonorRegistered,
		DonorID: donor.ID,
		Payload: events.DonorRegisteredPayload{
			FullName:   donor.FullName,
			BloodGroup: donor.BloodGroup,
			Category:   donor.Category,
		},
	})
	return donor, nil
}

// Get fetches a single registration.
func (s *RegistrationService) Get(ctx context.Context, id string) (*domain.DonorRegistration, error) {
	donor, err := s.donors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDonorNotFound) {
			return nil, apperrors.NewNotFound("donor registration", map[string]any{"id": id})
		}
		return nil, err
	}
	return donor, nil
}

// SearchInput carries raw admin search parameters; "all" and empty values
// are wildcards, status strings are normalized here so internal logic never
// sees raw casing.
type SearchInput struct {
	Status     string
	BloodGroup string
	Category   string
	Query      string
	Page       int
	PageSize   int
}

// Search lists registrations for the admin console.
func (s *RegistrationService) Search(ctx context.Context, input SearchInput) ([]domain.DonorRegistration, int, error) {
	filter := repository.DonorFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if !isWildcard(input.Status) {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("invalid status filter", map[string]any{"status": input.Status})
		}
		filter.Status = &status
	}
	if !isWildcard(input.BloodGroup) {
		group, err := domain.ParseBloodGroup(input.BloodGroup)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("invalid blood group filter", map[string]any{"blood_group": input.BloodGroup})
		}
		filter.BloodGroup = &group
	}
	if !isWildcard(input.Category) {
		category, err := domain.ParseCategory(input.Category)
		if err != nil {
			return nil, 0, apperrors.NewValidationError("invalid category filter", map[string]any{"category": input.Category})
		}
		filter.Category = &category
	}
	if query := strings.TrimSpace(input.Query); query != "" {
		filter.SearchTerm = &query
	}

	return s.donors.Search(ctx, filter)
}

// Approve moves a pending registration to approved.
func (s *RegistrationService) Approve(ctx context.Context, id, note string) (*domain.DonorRegistration, error) {
	donor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if donor.Status != domain.StatusPending {
		return nil, s.transitionNotAllowed(ctx, donor, domain.StatusApproved)
	}

	now := time.Now().UTC()
	transition := repository.StatusTransition{
		DonorID:    id,
		From:       domain.StatusPending,
		To:         domain.StatusApproved,
		ApprovedAt: &now,
		Activity:   activityEntry(donor, domain.StatusApproved, note, now),
	}
	updated, err := s.applyTransition(ctx, donor, transition)
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, updated, domain.StatusPending, "")
	return updated, nil
}

// Reject moves a pending or approved registration to rejected. A reason is
// required so intake rejection and failed screening stay distinguishable.
func (s *RegistrationService) Reject(ctx context.Context, id, reason, note string) (*domain.DonorRegistration, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("rejection reason required", nil)
	}

	donor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(donor.Status, domain.StatusRejected) {
		return nil, s.transitionNotAllowed(ctx, donor, domain.StatusRejected)
	}

	now := time.Now().UTC()
	transition := repository.StatusTransition{
		DonorID:         id,
		From:            donor.Status,
		To:              domain.StatusRejected,
		RejectionReason: &reason,
		Activity:        activityEntry(donor, domain.StatusRejected, reason, now),
	}
	if note = strings.TrimSpace(note); note != "" {
		transition.OperatorNotes = &note
	}
	updated, err := s.applyTransition(ctx, donor, transition)
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, updated, donor.Status, reason)
	return updated, nil
}

// MarkUnableToDonate records a donor who passed review but failed screening
// at the verification desk. It is a rejection constrained to approved donors.
func (s *RegistrationService) MarkUnableToDonate(ctx context.Context, id, reason, note string) (*domain.DonorRegistration, error) {
	donor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if donor.Status != domain.StatusApproved {
		return nil, s.transitionNotAllowed(ctx, donor, domain.StatusRejected)
	}
	return s.Reject(ctx, id, reason, note)
}

// Complete records a finished donation. Only approved donors may complete;
// completing a walk-in that was never vetted must fail.
func (s *RegistrationService) Complete(ctx context.Context, id string, unitsCollected int, notes string) (*domain.DonorRegistration, error) {
	if unitsCollected != 1 && unitsCollected != 2 {
		return nil, apperrors.NewValidationError("units_collected must be 1 or 2", map[string]any{
			"units_collected": unitsCollected,
		})
	}

	donor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if donor.Status != domain.StatusApproved {
		return nil, s.transitionNotAllowed(ctx, donor, domain.StatusCompleted)
	}

	now := time.Now().UTC()
	detail := fmt.Sprintf("%d unit(s) collected", unitsCollected)
	transition := repository.StatusTransition{
		DonorID:        id,
		From:           domain.StatusApproved,
		To:             domain.StatusCompleted,
		CompletedAt:    &now,
		UnitsCollected: &unitsCollected,
		Activity:       activityEntry(donor, domain.StatusCompleted, detail, now),
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		transition.OperatorNotes = &notes
	}
	updated, err := s.applyTransition(ctx, donor, transition)
	if err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, updated, domain.StatusApproved, "")
	s.publishEvent(ctx, events.Event{
		Type:    events.EventDonationCompleted,
		DonorID: updated.ID,
		Payload: events.DonationCompletedPayload{
			BloodGroup:     updated.BloodGroup,
			UnitsCollected: unitsCollected,
		},
	})
	return updated, nil
}

// BulkResult reports the outcome for one id in a bulk action.
type BulkResult struct {
	ID           string `json:"id"`
	Succeeded    bool   `json:"succeeded"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// BulkUpdateStatus applies approve or reject to each id independently;
// one invalid id never aborts the rest of the batch.
func (s *RegistrationService) BulkUpdateStatus(ctx context.Context, ids []string, to domain.DonorStatus, reason string) ([]BulkResult, error) {
	if to != domain.StatusApproved && to != domain.StatusRejected {
		return nil, apperrors.NewValidationError("bulk status must be approved or rejected", map[string]any{
			"status": string(to),
		})
	}

	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		var err error
		if to == domain.StatusApproved {
			_, err = s.Approve(ctx, id, "")
		} else {
			_, err = s.Reject(ctx, id, reason, "")
		}

		result := BulkResult{ID: id, Succeeded: err == nil}
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			result.ErrorCode = domainErr.Code
			result.ErrorMessage = domainErr.Message
		}
		results = append(results, result)
	}
	return results, nil
}

// EligibilityFor evaluates a donor snapshot, linking prior completed
// donations by email or phone for the interval check.
func (s *RegistrationService) EligibilityFor(ctx context.Context, donor *domain.DonorRegistration) (eligibility.Result, error) {
	lastCompleted, err := s.donors.LastCompletionForContact(ctx, donor.Email, donor.Phone, donor.ID)
	if err != nil {
		return eligibility.Result{}, err
	}
	return eligibility.Evaluate(donor, lastCompleted, time.Now().UTC()), nil
}

// applyTransition runs the conditional store update. A conflict means another
// admin finished their transition first; the caller gets the fresh status.
func (s *RegistrationService) applyTransition(ctx context.Context, donor *domain.DonorRegistration, transition repository.StatusTransition) (*domain.DonorRegistration, error) {
	updated, err := s.donors.Transition(ctx, transition)
	if err == nil {
		return updated, nil
	}
	if errors.Is(err, repository.ErrDonorNotFound) {
		return nil, apperrors.NewNotFound("donor registration", map[string]any{"id": transition.DonorID})
	}
	if errors.Is(err, repository.ErrStatusConflict) {
		return nil, s.transitionNotAllowed(ctx, donor, transition.To)
	}
	return nil, err
}

func (s *RegistrationService) transitionNotAllowed(ctx context.Context, donor *domain.DonorRegistration, to domain.DonorStatus) error {
	status := donor.Status
	if current, err := s.donors.GetByID(ctx, donor.ID); err == nil {
		status = current.Status
	}
	message := fmt.Sprintf("cannot transition donor from %s to %s", status, to)
	return apperrors.NewInvalidTransition(message, string(status))
}

func (s *RegistrationService) publishStatusChange(ctx context.Context, donor *domain.DonorRegistration, from domain.DonorStatus, reason string) {
	s.publishEvent(ctx, events.Event{
		Type:    events.EventDonorStatusChanged,
		DonorID: donor.ID,
		Payload: events.DonorStatusChangedPayload{
			OldStatus: from,
			NewStatus: donor.Status,
			Reason:    reason,
		},
	})
}

func (s *RegistrationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func activityEntry(donor *domain.DonorRegistration, status domain.DonorStatus, detail string, occurredAt time.Time) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:         uuid.NewString(),
		DonorID:    donor.ID,
		DonorName:  donor.FullName,
		BloodGroup: donor.BloodGroup,
		Status:     status,
		Detail:     detail,
		OccurredAt: occurredAt,
	}
}

func isWildcard(value string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	return trimmed == "" || trimmed == "all"
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-drive-service/internal/api/dto"
	"github.com/spec-kit/blood-drive-service/internal/domain"
	"github.com/spec-kit/blood-drive-service/internal/eligibility"
	"github.com/spec-kit/blood-drive-service/internal/service"
	apperrors "github.com/spec-kit/blood-drive-service/pkg/util/errorutil"
)

// RegistrationsHandler serves the public registration endpoint and the
// admin review/verification endpoints.
type RegistrationsHandler struct {
	service *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{service: registrationService}
}

// Create POST /api/registrations (public).
func (h *RegistrationsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	donor, err := h.service.Register(c.UserContext(), service.RegistrationInput{
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		Category:          req.Category,
		Branch:            req.Branch,
		Year:              req.Year,
		RollNo:            req.RollNo,
		Age:               req.Age,
		WeightKg:          req.WeightKg,
		BloodGroup:        req.BloodGroup,
		MedicalConditions: req.MedicalConditions,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": donorSummary(donor)})
}

// List GET /api/registrations (admin).
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	input := service.SearchInput{
		Status:     c.Query("status"),
		BloodGroup: c.Query("bloodGroup"),
		Category:   c.Query("category"),
		Query:      c.Query("query"),
		Page:       parseInt(c.Query("page"), 1),
		PageSize:   parseInt(c.Query("limit"), 20),
	}

	donors, total, err := h.service.Search(c.UserContext(), input)
	if err != nil {
		return err
	}
	items := make([]dto.DonorSummary, 0, len(donors))
	for i := range donors {
		items = append(items, donorSummary(&donors[i]))
	}
	return c.JSON(fiber.Map{"data": dto.PagedDonorsResponse{
		Items:    items,
		Total:    total,
		Page:     input.Page,
		PageSize: input.PageSize,
	}})
}

// Get GET /api/registrations/:id (admin). Includes eligibility flags for the
// verification screen.
func (h *RegistrationsHandler) Get(c *fiber.Ctx) error {
	donor, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	eligibilityResult, err := h.service.EligibilityFor(c.UserContext(), donor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donorDetail(donor, eligibilityResult)})
}

// UpdateStatusBulk PATCH /api/registrations/status (admin).
func (h *RegistrationsHandler) UpdateStatusBulk(c *fiber.Ctx) error {
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.IDs) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}

	results, err := h.service.BulkUpdateStatus(c.UserContext(), req.IDs, status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": results})
}

// Complete POST /api/registrations/:id/complete (admin).
func (h *RegistrationsHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	donor, err := h.service.Complete(c.UserContext(), c.Params("id"), req.UnitsCollected, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donorDetailNoEligibility(donor)})
}

// MarkUnableToDonate POST /api/registrations/:id/unable (admin).
func (h *RegistrationsHandler) MarkUnableToDonate(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	donor, err := h.service.MarkUnableToDonate(c.UserContext(), c.Params("id"), req.Reason, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": donorDetailNoEligibility(donor)})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func donorSummary(donor *domain.DonorRegistration) dto.DonorSummary {
	return dto.DonorSummary{
		ID:           donor.ID,
		FullName:     donor.FullName,
		Email:        donor.Email,
		Phone:        donor.Phone,
		Category:     donor.Category,
		BloodGroup:   donor.BloodGroup,
		Age:          donor.Age,
		WeightKg:     donor.WeightKg,
		Status:       donor.Status,
		RegisteredAt: donor.RegisteredAt,
		CompletedAt:  donor.CompletedAt,
	}
}

func donorDetail(donor *domain.DonorRegistration, result eligibility.Result) dto.DonorDetailResponse {
	detail := donorDetailNoEligibility(donor)
	detail.Eligibility = result
	return detail
}

func donorDetailNoEligibility(donor *domain.DonorRegistration) dto.DonorDetailResponse {
	return dto.DonorDetailResponse{
		ID:                donor.ID,
		FullName:          donor.FullName,
		Email:             donor.Email,
		Phone:             donor.Phone,
		Category:          donor.Category,
		Branch:            donor.Branch,
		Year:              donor.Year,
		RollNo:            donor.RollNo,
		Age:               donor.Age,
		WeightKg:          donor.WeightKg,
		BloodGroup:        donor.BloodGroup,
		MedicalConditions: donor.MedicalConditions,
		Status:            donor.Status,
		RegisteredAt:      donor.RegisteredAt,
		ApprovedAt:        donor.ApprovedAt,
		CompletedAt:       donor.CompletedAt,
		RejectionReason:   donor.RejectionReason,
		UnitsCollected:    donor.UnitsCollected,
		OperatorNotes:     donor.OperatorNotes,
	}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blood-drive-service/internal/api/dto"
	"github.com/spec-kit/blood-drive-service/internal/service"
)

// DashboardHandler serves public and admin aggregate views.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Stats GET /api/dashboard/stats (public).
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Inventory GET /api/dashboard/inventory (public).
func (h *DashboardHandler) Inventory(c *fiber.Ctx) error {
	inventory, err := h.service.Inventory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inventory})
}

// Activity GET /api/dashboard/activity?limit= (admin).
func (h *DashboardHandler) Activity(c *fiber.Ctx) error {
	events, err := h.service.RecentActivity(c.UserContext(), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	items := make([]dto.ActivityEventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, dto.ActivityEventResponse{
			ID:         event.ID,
			DonorName:  event.DonorName,
			BloodGroup: event.BloodGroup,
			Status:     event.Status,
			Detail:     event.Detail,
			OccurredAt: event.OccurredAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Trend GET /api/dashboard/trend?days= (admin).
func (h *DashboardHandler) Trend(c *fiber.Ctx) error {
	trend, err := h.service.Trend(c.UserContext(), parseInt(c.Query("days"), 7))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trend})
}

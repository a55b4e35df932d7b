package handler

import (
	"go-stock-ledger/internal/middleware"
	"go-stock-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	metrics service.MetricsService
}

func NewDashboardHandler(metrics service.MetricsService) *DashboardHandler {
	return &DashboardHandler{metrics: metrics}
}

// GetStats returns the overview card metrics in one call
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.metrics.DashboardStats(middleware.AuthUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, 200, stats)
}

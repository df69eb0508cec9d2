package handler

import (
	"clinic-admin-backend/internal/service"
	"clinic-admin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetCounts returns the active totals shown on the landing page
func (h *DashboardHandler) GetCounts(c *gin.Context) {
	counts, err := h.dashboardService.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, counts)
}

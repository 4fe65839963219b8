package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiplagat/bookshop-api/internal/application/service"
	"github.com/kiplagat/bookshop-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard and reporting HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// GetSalesReport handles the sales report for a date range. Defaults to the
// last 30 days when no range is given.
func (h *DashboardHandler) GetSalesReport(c *gin.Context) {
	startDate, endDate, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	end := time.Now()
	if endDate != nil {
		end = *endDate
	}
	start := end.AddDate(0, 0, -30)
	if startDate != nil {
		start = *startDate
	}
	if start.After(end) {
		response.BadRequest(c, "start_date must be before end_date")
		return
	}

	report, err := h.dashboardService.GetSalesReport(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}

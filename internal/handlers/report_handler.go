package handlers

import (
	"marketly/internal/handlers/shared"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Sales reports on non-cancelled orders. Defaults to the last 30 days.
func (h *ReportHandler) Sales(c *gin.Context) {
	var request services.SalesReportRequest
	if err := shared.BindQuery(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	report, err := h.reportService.Sales(c.Request.Context(), &request)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, "Sales report generated successfully", report)
}

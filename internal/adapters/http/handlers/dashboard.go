package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
	"github.com/jsamuelsen/artistly/internal/app"
)

// DashboardHandler serves the manager dashboard.
type DashboardHandler struct {
	dashboard *app.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboard *app.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Submissions handles GET /api/v1/dashboard
// Returns onboarded artists followed by quote requests.
//
// @Summary List submissions
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Submissions(c *gin.Context) {
	subs, err := h.dashboard.Submissions(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDashboardResponse(subs))
}

package handlers

import (
	"net/http"

	"github.com/farellandr/echallan/internal/dashboard"
	"github.com/farellandr/echallan/internal/helpers"
	"github.com/farellandr/echallan/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboard *dashboard.Service
	logger    *zap.Logger
}

func NewDashboardHandler(service *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: service, logger: logger}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	summary, err := h.dashboard.GetDashboardStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		helpers.RespondWithAppError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

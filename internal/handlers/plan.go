package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/requestdata"
	"github.com/myifeai/myifeai/internal/services"
)

type PlanHandler struct {
	log     *logger.Logger
	planSvc services.PlanService
}

func NewPlanHandler(log *logger.Logger, planSvc services.PlanService) *PlanHandler {
	return &PlanHandler{
		log:     log.With("handler", "PlanHandler"),
		planSvc: planSvc,
	}
}

// GET /api/daily-actions
// GET /api/generate-plan
func (h *PlanHandler) GetDailyPlan(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.log.Info("Generating plan", "user_id", rd.UserID)
	plan, err := h.planSvc.GenerateDailyPlan(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "AI Engine failed", err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

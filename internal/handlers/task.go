package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/requestdata"
	"github.com/myifeai/myifeai/internal/services"
)

type CompleteTaskRequest struct {
	Domain   string `json:"domain"`
	XPPoints int    `json:"xpPoints"`
	TaskText string `json:"taskText"`
}

type TaskHandler struct {
	log         *logger.Logger
	progressSvc services.ProgressService
}

func NewTaskHandler(log *logger.Logger, progressSvc services.ProgressService) *TaskHandler {
	return &TaskHandler{
		log:         log.With("handler", "TaskHandler"),
		progressSvc: progressSvc,
	}
}

// POST /api/complete-task
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing domain data"})
		return
	}
	if req.XPPoints < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "xpPoints must not be negative"})
		return
	}

	if err := h.progressSvc.CompleteTask(c.Request.Context(), rd.UserID, req.Domain, req.XPPoints, req.TaskText); err != nil {
		var stepErr *services.StepError
		if errors.As(err, &stepErr) {
			RespondError(c, http.StatusInternalServerError, "Update failed: "+stepErr.Step, stepErr.Err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "Update failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

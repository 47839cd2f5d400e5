package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/requestdata"
	"github.com/myifeai/myifeai/internal/services"
)

type ProfileHandler struct {
	log         *logger.Logger
	progressSvc services.ProgressService
}

func NewProfileHandler(log *logger.Logger, progressSvc services.ProgressService) *ProfileHandler {
	return &ProfileHandler{
		log:         log.With("handler", "ProfileHandler"),
		progressSvc: progressSvc,
	}
}

// GET /api/get-profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.progressSvc.GetProfile(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "Could not load profile", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

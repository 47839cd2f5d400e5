package handlers

import (
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func RespondError(c *gin.Context, status int, msg string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	c.JSON(status, ErrorResponse{Error: msg, Details: details})
}

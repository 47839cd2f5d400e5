package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myifeai/myifeai/internal/logger"
	"github.com/myifeai/myifeai/internal/services"
)

// SignatureVerifier checks the provider's svix headers against the verbatim
// request bytes. *svix.Webhook satisfies it.
type SignatureVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

type WebhookHandler struct {
	log      *logger.Logger
	verifier SignatureVerifier
	syncSvc  services.UserSyncService
}

func NewWebhookHandler(log *logger.Logger, verifier SignatureVerifier, syncSvc services.UserSyncService) *WebhookHandler {
	return &WebhookHandler{
		log:      log.With("handler", "WebhookHandler"),
		verifier: verifier,
		syncSvc:  syncSvc,
	}
}

// POST /api/webhook
//
// The signature covers the exact wire bytes, so the body is read raw before
// any JSON decoding happens.
func (h *WebhookHandler) HandleIdentityWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Could not read request body", err)
		return
	}

	if err := h.verifier.Verify(payload, c.Request.Header); err != nil {
		h.log.Warn("Webhook signature verification failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var evt identityEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid payload", err)
		return
	}

	if evt.Type == "user.created" {
		if err := h.syncSvc.SyncCreatedUser(c.Request.Context(), evt.Data.ID, evt.Data.FirstName, evt.Data.LastName); err != nil {
			RespondError(c, http.StatusInternalServerError, "User sync failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User & Scores Initialized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

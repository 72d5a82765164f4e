package handlers

import (
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Signature"

const maxWebhookBody = 1 << 20

type webhookHandler struct {
	webhooks portssvc.PaymentWebhookSvc
}

// registerWebhookRoutes registers the public payment provider webhook.
func registerWebhookRoutes(rg gin.IRoutes, webhooks portssvc.PaymentWebhookSvc, mw ...gin.HandlerFunc) {
	h := &webhookHandler{webhooks: webhooks}
	rg.POST("/webhooks/payments", append(mw, h.receivePaymentEvent)...)
}

// receivePaymentEvent godoc
// @Summary Receive a payment provider event
// @Description Signed with HMAC-SHA256 in the X-Signature header. Replays are acknowledged without side effects.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Signature header string true "Hex HMAC-SHA256 of the body"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Malformed event"
// @Failure 401 {object} map[string]string "Bad signature"
// @Router /webhooks/payments [post]
func (h *webhookHandler) receivePaymentEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if err := h.webhooks.HandleDelivery(c.Request.Context(), payload, c.GetHeader(SignatureHeader)); err != nil {
		respondError(c, logger, err, "Failed to process payment event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

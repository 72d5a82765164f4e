package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/dto"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billingHandler handles subscription activation, checkout and payment verification.
type billingHandler struct {
	activations   portssvc.ActivationTrackerSvc
	subscriptions portssvc.SubscriptionSvc
	checkout      portssvc.CheckoutSvc
	verifier      portssvc.PaymentVerifierSvc
}

func newBillingHandler(services *portssvc.ServiceContainer) *billingHandler {
	return &billingHandler{
		activations:   services.Activation,
		subscriptions: services.Subscription,
		checkout:      services.Checkout,
		verifier:      services.Verifier,
	}
}

// registerActivationRoutes registers the activation routes. They accept anonymous
// callers so an attempt can report that authentication is needed.
func registerActivationRoutes(rg *gin.RouterGroup, h *billingHandler) {
	activations := rg.Group("/billing/activations")
	{
		activations.POST("", h.startActivation)
		activations.GET("/:id", h.getActivation)
		activations.POST("/:id/retry", h.retryActivation)
	}
}

// registerBillingRoutes registers the authenticated billing routes.
func registerBillingRoutes(rg *gin.RouterGroup, h *billingHandler) {
	billing := rg.Group("/billing")
	{
		billing.GET("/subscription", h.getSubscription)
		billing.POST("/checkout", h.startCheckout)
	}
	rg.POST("/functions/verify-payment", h.verifyPayment)
}

// startActivation godoc
// @Summary Start activating a plan after checkout
// @Description Starts a background reconciliation attempt and returns it immediately. Poll it by id.
// @Tags billing
// @Accept json
// @Produce json
// @Param request body dto.StartActivationRequest true "Checkout return parameters"
// @Success 202 {object} domain.ActivationAttempt
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /billing/activations [post]
func (h *billingHandler) startActivation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StartActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartActivation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	attempt := h.activations.Start(userID, domain.ActivationRequest{Plan: req.Plan, ProviderPaymentID: req.ProviderPaymentID})
	logger.Info("Activation attempt started", slog.String("attempt_id", attempt.ID), slog.String("plan", req.Plan))
	c.JSON(http.StatusAccepted, attempt)
}

// getActivation godoc
// @Summary Poll an activation attempt
// @Tags billing
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} domain.ActivationAttempt
// @Failure 404 {object} map[string]string "Attempt not found"
// @Router /billing/activations/{id} [get]
func (h *billingHandler) getActivation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, _ := middleware.GetUserIDFromContext(c)

	attempt, err := h.activations.Get(c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to get activation attempt")
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// retryActivation godoc
// @Summary Retry a finished activation attempt
// @Description Resets the retry counter and resolves again. An attempt that needed authentication is adopted by the caller.
// @Tags billing
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 202 {object} domain.ActivationAttempt
// @Failure 404 {object} map[string]string "Attempt not found"
// @Failure 409 {object} map[string]string "Attempt is still running or already activated"
// @Router /billing/activations/{id}/retry [post]
func (h *billingHandler) retryActivation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, _ := middleware.GetUserIDFromContext(c)

	attempt, err := h.activations.Retry(c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retry activation attempt")
		return
	}
	logger.Info("Activation attempt retried", slog.String("attempt_id", attempt.ID))
	c.JSON(http.StatusAccepted, attempt)
}

// getSubscription godoc
// @Summary Get the caller's subscription
// @Tags billing
// @Produce json
// @Success 200 {object} domain.SubscriptionRecord
// @Failure 404 {object} map[string]string "No subscription"
// @Security BearerAuth
// @Router /billing/subscription [get]
func (h *billingHandler) getSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, _ := middleware.GetUserIDFromContext(c)

	sub, err := h.subscriptions.GetSubscription(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to get subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// startCheckout godoc
// @Summary Open a checkout for a paid plan
// @Tags billing
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Plan"
// @Success 201 {object} domain.CheckoutSession
// @Failure 400 {object} map[string]string "Unknown or free plan"
// @Failure 502 {object} map[string]string "Payment provider unavailable"
// @Security BearerAuth
// @Router /billing/checkout [post]
func (h *billingHandler) startCheckout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartCheckout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	session, err := h.checkout.StartCheckout(c.Request.Context(), userID, req.Plan)
	if err != nil {
		respondError(c, logger, err, "Failed to start checkout")
		return
	}
	c.JSON(http.StatusCreated, session)
}

// verifyPayment godoc
// @Summary Verify a payment and activate its plan
// @Description Looks the payment up at the provider, records its terminal status and activates the plan on success
// @Tags functions
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Payment reference"
// @Success 200 {object} domain.VerifyPaymentResult
// @Failure 403 {object} map[string]string "Payment belongs to another user"
// @Failure 502 {object} map[string]string "Payment provider unavailable"
// @Security BearerAuth
// @Router /functions/verify-payment [post]
func (h *billingHandler) verifyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VerifyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	result, err := h.verifier.VerifyPayment(c.Request.Context(), domain.VerifyPaymentRequest{
		ProviderPaymentID: req.ProviderPaymentID,
		UserID:            userID,
		Plan:              req.Plan,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to verify payment")
		return
	}
	c.JSON(http.StatusOK, result)
}

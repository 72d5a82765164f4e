package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/dto"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/gin-gonic/gin"
)

type adminCurrencyHandler struct {
	admin portssvc.CurrencyAdminSvc
}

// registerAdminCurrencyRoutes registers currency administration routes. The group
// must already require the admin role.
func registerAdminCurrencyRoutes(rg *gin.RouterGroup, admin portssvc.CurrencyAdminSvc) {
	h := &adminCurrencyHandler{admin: admin}

	rg.PUT("/currencies", h.updateSupportedCurrencies)
	rg.PUT("/users/:userID/currency", h.setUserCurrency)
}

// updateSupportedCurrencies godoc
// @Summary Replace the supported currencies
// @Description Users on a removed currency are moved to EUR. EUR may only be dropped when no user would fall back to it.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateSupportedCurrenciesRequest true "Currency codes"
// @Success 200 {object} dto.SupportedCurrenciesResponse
// @Failure 400 {object} map[string]string "Invalid codes"
// @Failure 403 {object} map[string]string "Not an administrator"
// @Security BearerAuth
// @Router /admin/currencies [put]
func (h *adminCurrencyHandler) updateSupportedCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateSupportedCurrenciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSupportedCurrencies", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	adminID, _ := middleware.GetUserIDFromContext(c)

	set, err := h.admin.UpdateSupportedCurrencies(c.Request.Context(), req.Codes, adminID)
	if err != nil {
		respondError(c, logger, err, "Failed to update supported currencies")
		return
	}
	logger.Info("Supported currencies replaced", slog.Any("codes", set.Codes), slog.Int64("version", set.Version))
	c.JSON(http.StatusOK, dto.ToSupportedCurrenciesResponse(set))
}

// setUserCurrency godoc
// @Summary Override a user's display currency
// @Tags admin
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param request body dto.SetCurrencyRequest true "Currency code"
// @Success 200 {object} domain.UserCurrencyPreference
// @Failure 400 {object} map[string]string "Unsupported currency"
// @Failure 403 {object} map[string]string "Not an administrator"
// @Security BearerAuth
// @Router /admin/users/{userID}/currency [put]
func (h *adminCurrencyHandler) setUserCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetUserCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	adminID, _ := middleware.GetUserIDFromContext(c)
	userID := c.Param("userID")

	pref, err := h.admin.SetUserCurrency(c.Request.Context(), userID, req.CurrencyCode, adminID)
	if err != nil {
		respondError(c, logger, err, "Failed to set user currency")
		return
	}
	logger.Info("User currency overridden", slog.String("target_user_id", userID), slog.String("currency_code", pref.CurrencyCode))
	c.JSON(http.StatusOK, pref)
}

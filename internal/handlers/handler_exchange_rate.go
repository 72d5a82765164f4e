package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/smb_suite/internal/core/domain"
	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/dto"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rates    portssvc.ExchangeRateSvc
	sessions portssvc.CurrencySessionProvider
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rates portssvc.ExchangeRateSvc, sessions portssvc.CurrencySessionProvider) {
	h := &exchangeRateHandler{rates: rates, sessions: sessions}

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("", h.getExchangeRates)
		exchangeRates.POST("/refresh", h.refreshExchangeRates)
	}
}

// getExchangeRates godoc
// @Summary Get the current exchange rates
// @Description Returns the in-memory rate table relative to EUR without triggering a fetch
// @Tags exchange rates
// @Produce json
// @Success 200 {object} dto.ExchangeRatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) getExchangeRates(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToExchangeRatesResponse(h.rates.Table(), time.Now(), domain.RateFreshnessWindow, h.rates.LastError()))
}

// refreshExchangeRates godoc
// @Summary Force an exchange rate refresh
// @Description Fetches fresh rates. On failure the previous table stays in use and degraded is true.
// @Tags exchange rates
// @Produce json
// @Success 200 {object} dto.RefreshRatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /exchange-rates/refresh [post]
func (h *exchangeRateHandler) refreshExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	session, err := h.sessions.Session(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open currency session")
		return
	}

	res := session.LoadRates(c.Request.Context(), true)
	logger.Info("Exchange rates refreshed", slog.String("source", string(res.Source)), slog.Bool("degraded", res.Degraded))
	c.JSON(http.StatusOK, dto.RefreshRatesResponse{
		Source:                res.Source,
		Degraded:              res.Degraded,
		ExchangeRatesResponse: dto.ToExchangeRatesResponse(res.Table, time.Now(), domain.RateFreshnessWindow, res.Error),
	})
}

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/dto"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// currencyHandler handles HTTP requests related to the caller's display currency.
type currencyHandler struct {
	sessions portssvc.CurrencySessionProvider
	admin    portssvc.CurrencyAdminSvc
}

// registerCurrencyRoutes registers routes related to display currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, sessions portssvc.CurrencySessionProvider, admin portssvc.CurrencyAdminSvc) {
	h := &currencyHandler{sessions: sessions, admin: admin}

	currency := rg.Group("/currency")
	{
		currency.GET("", h.getCurrency)
		currency.PUT("", h.setCurrency)
		currency.GET("/configs", h.listConfigs)
		currency.GET("/configs/:code", h.getConfig)
		currency.POST("/convert", h.convertAmount)
		currency.POST("/format", h.formatAmount)
		currency.POST("/display", h.displayAmounts)
	}
}

// session resolves the caller's currency session, answering the request on failure.
func (h *currencyHandler) session(c *gin.Context) (portssvc.CurrencySessionSvc, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	session, err := h.sessions.Session(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open currency session")
		return nil, false
	}
	return session, true
}

func toCurrencyState(session portssvc.CurrencySessionSvc) dto.CurrencyStateResponse {
	current := session.CurrentCurrency()
	supported := session.SupportedCurrencies()
	return dto.CurrencyStateResponse{
		CurrentCurrency:     current,
		Config:              session.GetConfig(current),
		SupportedCurrencies: supported.Codes,
		SupportedVersion:    supported.Version,
		RatesError:          session.RatesError(),
	}
}

// getCurrency godoc
// @Summary Get the display currency
// @Description Returns the caller's current display currency and the supported list
// @Tags currency
// @Produce json
// @Success 200 {object} dto.CurrencyStateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currency [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCurrencyState(session))
}

// setCurrency godoc
// @Summary Change the display currency
// @Description Switches the caller's display currency. Other open sessions of the same user follow.
// @Tags currency
// @Accept json
// @Produce json
// @Param request body dto.SetCurrencyRequest true "Currency code"
// @Success 200 {object} dto.CurrencyStateResponse
// @Failure 400 {object} map[string]string "Invalid or unsupported currency"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currency [put]
func (h *currencyHandler) setCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}
	if !session.SupportedCurrencies().Contains(req.CurrencyCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency " + req.CurrencyCode + " is not supported"})
		return
	}
	if err := session.SetCurrency(c.Request.Context(), req.CurrencyCode); err != nil {
		respondError(c, logger, err, "Failed to change currency")
		return
	}

	logger.Info("Display currency changed", slog.String("currency_code", req.CurrencyCode))
	c.JSON(http.StatusOK, toCurrencyState(session))
}

// listConfigs godoc
// @Summary List currency display configs
// @Tags currency
// @Produce json
// @Success 200 {array} domain.CurrencyConfig
// @Security BearerAuth
// @Router /currency/configs [get]
func (h *currencyHandler) listConfigs(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.ListCurrencyConfigs())
}

// getConfig godoc
// @Summary Get a currency display config
// @Description Unknown codes get a synthesized default config
// @Tags currency
// @Produce json
// @Param code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} domain.CurrencyConfig
// @Failure 400 {object} map[string]string "Invalid code"
// @Security BearerAuth
// @Router /currency/configs/{code} [get]
func (h *currencyHandler) getConfig(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if len(code) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.GetConfig(code))
}

// convertAmount godoc
// @Summary Convert an amount
// @Description Converts from the base currency (rounded to the target's decimals) or into it (rounded to 2 decimals)
// @Tags currency
// @Accept json
// @Produce json
// @Param request body dto.ConvertAmountRequest true "Conversion"
// @Success 200 {object} dto.ConvertAmountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /currency/convert [post]
func (h *currencyHandler) convertAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	code := req.CurrencyCode
	if code == "" {
		code = session.CurrentCurrency()
	}
	var amount decimal.Decimal
	if req.Direction == dto.DirectionFromBase {
		amount = session.ConvertFromBase(req.Amount, code)
	} else {
		amount = session.ConvertToBase(req.Amount, code)
	}
	c.JSON(http.StatusOK, dto.ConvertAmountResponse{Amount: amount, CurrencyCode: code, Direction: req.Direction})
}

// formatAmount godoc
// @Summary Format a base amount for display
// @Tags currency
// @Accept json
// @Produce json
// @Param request body dto.FormatAmountRequest true "Amount in base currency"
// @Success 200 {object} dto.FormatAmountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /currency/format [post]
func (h *currencyHandler) formatAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FormatAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FormatAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	var formatted string
	if req.WithSymbol {
		formatted = session.FormatAmountWithSymbol(req.AmountInBase, req.ShowSign)
	} else {
		formatted = session.FormatAmount(req.AmountInBase)
	}
	c.JSON(http.StatusOK, dto.FormatAmountResponse{Formatted: formatted, CurrencyCode: session.CurrentCurrency()})
}

// displayAmounts godoc
// @Summary Convert stored amounts for display
// @Description Amounts without a currency are treated as base currency
// @Tags currency
// @Accept json
// @Produce json
// @Param request body dto.DisplayAmountsRequest true "Stored amounts"
// @Success 200 {object} dto.DisplayAmountsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /currency/display [post]
func (h *currencyHandler) displayAmounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DisplayAmountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DisplayAmounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	session, ok := h.session(c)
	if !ok {
		return
	}

	amounts := make([]decimal.Decimal, len(req.Amounts))
	for i, m := range req.Amounts {
		amounts[i] = session.ToDisplay(m)
	}
	c.JSON(http.StatusOK, dto.DisplayAmountsResponse{CurrencyCode: session.CurrentCurrency(), Amounts: amounts})
}

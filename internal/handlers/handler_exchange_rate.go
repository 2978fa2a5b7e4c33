package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/dto"
	"github.com/SscSPs/rental_fx/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
	rateCache           portssvc.RateCacheSvc
	refresher           portssvc.RateRefresher
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(services *portssvc.ServiceContainer) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: services.ExchangeRate,
		rateCache:           services.RateCache,
		refresher:           services.Refresher,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
// The refresh endpoint is guarded by the handlers passed in refreshGuards.
func registerExchangeRateRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, refreshGuards ...gin.HandlerFunc) {
	h := newExchangeRateHandler(services)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/snapshot", h.getRatesSnapshot)
		exchangeRates.GET("/:currency", h.getExchangeRate)
		exchangeRates.GET("/:currency/history", h.listExchangeRateHistory)
		exchangeRates.POST("/refresh", append(refreshGuards, h.refreshExchangeRates)...)
	}
}

// listExchangeRates godoc
// @Summary List stored exchange rates
// @Description Returns every stored rate quoted against KRW. An empty store is refreshed once before answering.
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.ListExchangeRatesResponse
// @Failure 500 {object} map[string]string "Failed to list exchange rates"
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	records, err := h.exchangeRateService.GetAllRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list exchange rates from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exchange rates"})
		return
	}

	latest, err := h.exchangeRateService.GetLatestFetchedAt(c.Request.Context())
	if err != nil {
		// The rates are still useful without the timestamp.
		logger.Warn("Failed to read latest fetch time", slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, dto.ListExchangeRatesResponse{
		Base:            domain.BaseCurrency.String(),
		LatestFetchedAt: latest,
		Rates:           dto.ToListExchangeRateResponse(records),
	})
}

// getExchangeRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the stored rate for one currency against KRW
// @Tags exchange rates
// @Produce  json
// @Param   currency path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Unsupported or base currency"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Router /exchange-rates/{currency} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	code, ok := domain.ParseCurrencyCode(c.Param("currency"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency code"})
		return
	}
	logger = logger.With(slog.String("currency", code.String()))

	rate, err := h.exchangeRateService.GetRate(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidCurrencyPair) {
			logger.Warn("Validation error getting exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Exchange rate not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		} else {
			logger.Error("Failed to get exchange rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listExchangeRateHistory godoc
// @Summary List the rate history of a currency
// @Description Pages through stored history rows, newest first
// @Tags exchange rates
// @Produce  json
// @Param   currency path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListRateHistoryResponse
// @Failure 400 {object} map[string]string "Invalid currency, limit or token"
// @Failure 500 {object} map[string]string "Failed to list exchange rate history"
// @Router /exchange-rates/{currency}/history [get]
func (h *exchangeRateHandler) listExchangeRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	code, ok := domain.ParseCurrencyCode(c.Param("currency"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency code"})
		return
	}

	var params dto.ListRateHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid history query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}

	page, err := h.exchangeRateService.GetRateHistory(c.Request.Context(), code, params.Limit, nextToken)
	if err != nil {
		var appErr *apperrors.AppError
		switch {
		case errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidCurrencyPair):
			logger.Warn("Validation error listing rate history", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
		default:
			logger.Error("Failed to list exchange rate history", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exchange rate history"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateHistoryResponse(page))
}

// getRatesSnapshot godoc
// @Summary Get the display rate table
// @Description Returns display rates from the cache client. Never fails; source tells which tier answered.
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.RatesSnapshotResponse
// @Router /exchange-rates/snapshot [get]
func (h *exchangeRateHandler) getRatesSnapshot(c *gin.Context) {
	snap := h.rateCache.GetRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToRatesSnapshotResponse(snap))
}

// refreshExchangeRates godoc
// @Summary Refresh exchange rates now
// @Description Fetches the provider once and stores every supported currency it returned
// @Tags exchange rates
// @Produce  json
// @Success 200 {object} dto.RefreshRatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "A refresh is already running"
// @Failure 502 {object} map[string]string "Rate provider unavailable"
// @Failure 500 {object} map[string]string "Failed to refresh exchange rates"
// @Security BearerAuth
// @Router /exchange-rates/refresh [post]
func (h *exchangeRateHandler) refreshExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if operatorID, ok := middleware.GetOperatorIDFromContext(c); ok {
		logger = logger.With(slog.String("operator_id", operatorID))
	}
	logger.Info("Received request to refresh exchange rates")

	if h.refresher == nil {
		logger.Error("No rate refresher configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Refresh is not available"})
		return
	}

	records, err := h.refresher.Trigger(c.Request.Context())
	if err != nil && len(records) == 0 {
		switch {
		case errors.Is(err, apperrors.ErrRefreshInProgress):
			logger.Warn("Refresh already in progress")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrProviderUnavailable):
			logger.Warn("Rate provider unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Rate provider unavailable"})
		default:
			logger.Error("Failed to refresh exchange rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh exchange rates"})
		}
		return
	}

	res := dto.RefreshRatesResponse{
		Updated: len(records),
		Rates:   dto.ToListExchangeRateResponse(records),
	}
	if err != nil {
		logger.Warn("Exchange rates partially refreshed", slog.String("error", err.Error()))
		res.Error = err.Error()
	}
	logger.Info("Exchange rates refreshed", slog.Int("updated", len(records)))
	c.JSON(http.StatusOK, res)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/dto"
	"github.com/SscSPs/rental_fx/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler serves the read-only currency registry.
type currencyHandler struct {
	registry portssvc.CurrencySvcFacade
}

func registerCurrencyRoutes(rg *gin.RouterGroup, registry portssvc.CurrencySvcFacade) {
	h := &currencyHandler{registry: registry}

	currencies := rg.Group("/currencies")
	currencies.GET("", h.listCurrencies)
	currencies.GET("/:code", h.getCurrencyByCode)
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Retrieves the display profile of a supported currency. Lookup is case-insensitive.
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CurrencyResponse
// @Failure 404 {object} map[string]string "Currency not supported"
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	code := c.Param("code")

	profile, err := h.registry.GetCurrencyByCode(c.Request.Context(), code)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Currency lookup failed",
			slog.String("currency_code", code), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
	default:
		c.JSON(http.StatusOK, dto.ToCurrencyResponse(profile))
	}
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Every supported currency in registry order, base currency first
// @Tags currencies
// @Produce  json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	profiles, err := h.registry.ListCurrencies(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Listing currencies failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(profiles))
}

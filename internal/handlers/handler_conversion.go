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
	"github.com/shopspring/decimal"
)

type conversionHandler struct {
	conversionService portssvc.ConversionSvc
}

func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvc) {
	h := &conversionHandler{conversionService: conversionService}
	rg.GET("/convert", h.convert)
}

// convert godoc
// @Summary Convert an amount
// @Description Converts an amount between two supported currencies with the cached display rates and formats it for the target locale
// @Tags conversion
// @Produce  json
// @Param   amount query string true "Amount to convert"
// @Param   from   query string true "Source currency code"
// @Param   to     query string true "Target currency code"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid amount or unsupported currency"
// @Failure 500 {object} map[string]string "Failed to convert amount"
// @Router /convert [get]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}
	from, fromOK := domain.ParseCurrencyCode(req.From)
	to, toOK := domain.ParseCurrencyCode(req.To)
	if !fromOK || !toOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency code"})
		return
	}

	quote, err := h.conversionService.Quote(c.Request.Context(), amount, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCurrencyPair) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to convert amount", slog.String("from", from.String()), slog.String("to", to.String()), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToConversionResponse(quote))
}

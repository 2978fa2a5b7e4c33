package handlers

import (
	"net/http"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Service information
// @Description Returns the service name, base currency and supported currency codes
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(c *gin.Context) {
	codes := make([]string, 0, len(domain.SupportedCurrencies()))
	for _, p := range domain.SupportedCurrencies() {
		codes = append(codes, p.Code.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"service":    "rental fx",
		"base":       domain.BaseCurrency.String(),
		"currencies": codes,
	})
}

// getHealth is the liveness probe; it does not touch the store or the provider.
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

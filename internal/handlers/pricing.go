// internal/handlers/pricing.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clubhub/ads-backend/internal/i18n"
	"github.com/clubhub/ads-backend/internal/services"
	"github.com/clubhub/ads-backend/internal/utils"
)

type PricingHandler struct {
	pricingService *services.PricingService
}

func NewPricingHandler(pricingService *services.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// GET /ads/pricing
func (h *PricingHandler) GetPricing(c *gin.Context) {
	table, err := h.pricingService.GetPricing(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, table)
}

// PUT /ads/pricing
func (h *PricingHandler) UpdatePricing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.PricingTable
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	table, err := h.pricingService.UpdatePricing(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.MessageResponse(c, i18n.T(lang, i18n.KeyPricingUpdated), table)
}

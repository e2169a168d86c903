// internal/handlers/media.go
package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clubhub/ads-backend/internal/i18n"
	"github.com/clubhub/ads-backend/internal/models"
	"github.com/clubhub/ads-backend/internal/services"
	"github.com/clubhub/ads-backend/internal/utils"
)

// AssetResolver decides how an asset's bytes are delivered.
type AssetResolver interface {
	ResolveAsset(asset *models.AdAsset) (localPath, redirectURL string, err error)
}

type MediaHandler struct {
	adService *services.AdService
	resolver  AssetResolver
}

func NewMediaHandler(adService *services.AdService, resolver AssetResolver) *MediaHandler {
	return &MediaHandler{
		adService: adService,
		resolver:  resolver,
	}
}

// GET /media/asset/:id
func (h *MediaHandler) GetAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyValidationInvalid, "asset id"), nil)
		return
	}

	asset, err := h.adService.GetAsset(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	localPath, redirectURL, err := h.resolver.ResolveAsset(asset)
	if err != nil {
		utils.NotFoundResponse(c, i18n.KeyAssetNotFound)
		return
	}

	if localPath != "" {
		if _, err := os.Stat(localPath); err != nil {
			utils.NotFoundResponse(c, i18n.KeyAssetNotFound)
			return
		}
		c.Header("Cache-Control", "public, max-age=86400")
		c.File(localPath)
		return
	}

	if redirectURL == "" {
		utils.NotFoundResponse(c, i18n.KeyAssetNotFound)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// GET /health
func HealthCheck(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": version,
		})
	}
}

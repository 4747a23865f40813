package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storagemarket/web/internal/services"
)

// RestLocationHandler handles requests for the submission form's reference data.
type RestLocationHandler struct {
	locationService services.ILocationService
}

// NewRestLocationHandler creates a new RestLocationHandler.
func NewRestLocationHandler(locationService services.ILocationService) *RestLocationHandler {
	return &RestLocationHandler{locationService: locationService}
}

// SuggestLocations handles GET /v1/locations/suggest?q=
// An empty query yields an empty list rather than an error.
func (h *RestLocationHandler) SuggestLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.locationService.SuggestLocations(c.Query("q"))})
}

// ListUnitTypes handles GET /v1/unit-types
func (h *RestLocationHandler) ListUnitTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.locationService.UnitTypes()})
}

// GetDefaultImage handles GET /v1/images/default?unit_type=
func (h *RestLocationHandler) GetDefaultImage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": h.locationService.DefaultImage(c.Query("unit_type"))})
}

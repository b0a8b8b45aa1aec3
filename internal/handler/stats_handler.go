package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pubmap/areas-backend-go/internal/service"
	"github.com/pubmap/areas-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for area statistics
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetAreaStatistics returns venue counts grouped by borough and area
// GET /api/v1/stats/areas
func (h *StatsHandler) GetAreaStatistics(c *gin.Context) {
	minVenuesStr := c.DefaultQuery("min_venues", "0")
	minVenues, err := strconv.Atoi(minVenuesStr)
	if err != nil || minVenues < 0 {
		response.Error(c, http.StatusBadRequest, "Invalid min_venues")
		return
	}

	sortBy := c.DefaultQuery("sort_by", service.SortByName)

	stats, err := h.service.AreaStatistics(c.Request.Context(), minVenues, sortBy)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, stats)
}

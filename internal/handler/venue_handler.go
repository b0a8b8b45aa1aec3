package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/service"
	"github.com/pubmap/areas-backend-go/pkg/response"
)

// VenueHandler handles HTTP requests for venues
type VenueHandler struct {
	service *service.VenueService
}

// NewVenueHandler creates a new venue handler
func NewVenueHandler(service *service.VenueService) *VenueHandler {
	return &VenueHandler{service: service}
}

// GetVenues retrieves venues with filtering and pagination
// GET /api/v1/venues
func (h *VenueHandler) GetVenues(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "100"))
	if err != nil {
		pageSize = 100
	}

	filter := models.VenueFilter{
		Area:     c.Query("area"),
		Borough:  c.Query("borough"),
		Page:     page,
		PageSize: pageSize,
	}

	venues, total, err := h.service.GetVenues(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{
		"venues":    venues,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// GetVenue retrieves a single venue by ID
// GET /api/v1/venues/:id
func (h *VenueHandler) GetVenue(c *gin.Context) {
	id := c.Param("id")

	venue, err := h.service.GetVenue(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	if venue == nil {
		response.NotFound(c, "Venue not found")
		return
	}

	response.Success(c, venue)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pubmap/areas-backend-go/internal/consolidate"
	"github.com/pubmap/areas-backend-go/internal/service"
	"github.com/pubmap/areas-backend-go/pkg/response"
)

// ConsolidationHandler handles HTTP requests for consolidation runs
type ConsolidationHandler struct {
	service *service.ConsolidationService
}

// NewConsolidationHandler creates a new consolidation handler
func NewConsolidationHandler(service *service.ConsolidationService) *ConsolidationHandler {
	return &ConsolidationHandler{service: service}
}

// CreateRunRequest represents the request body for launching a run
type CreateRunRequest struct {
	MinClusterSize int      `json:"min_cluster_size"`
	MaxRangeKm     *float64 `json:"max_range_km"`
	DryRun         bool     `json:"dry_run"`
}

// CreateRun launches a new consolidation run
// POST /api/admin/consolidation/runs
func (h *ConsolidationHandler) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MaxRangeKm != nil && *req.MaxRangeKm <= 0 {
		response.Error(c, http.StatusBadRequest, "max_range_km must be positive")
		return
	}

	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "admin"
	}

	opts := consolidate.Options{
		MinClusterSize: req.MinClusterSize,
		MaxRangeKm:     req.MaxRangeKm,
		DryRun:         req.DryRun,
	}

	run, err := h.service.StartRun(opts, createdBy)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, run)
}

// GetRun retrieves a run by ID
// GET /api/admin/consolidation/runs/:id
func (h *ConsolidationHandler) GetRun(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := h.service.GetRun(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, err.Error())
		return
	}

	response.Success(c, run)
}

// ListRuns retrieves runs
// GET /api/admin/consolidation/runs
func (h *ConsolidationHandler) ListRuns(c *gin.Context) {
	status := c.Query("status")
	limitStr := c.DefaultQuery("limit", "20")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		limit = 20
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		offset = 0
	}

	runs, err := h.service.ListRuns(status, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/gustovivo/internal/api/middleware"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/service"
)

// JobHandler handles run history endpoints.
type JobHandler struct {
	historyService *service.HistoryService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(historyService *service.HistoryService) *JobHandler {
	return &JobHandler{historyService: historyService}
}

// ListJobs handles GET /api/v1/jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, err := h.historyService.ListRecent(c.Request.Context(), limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Run history is disabled",
		})
		return
	}
	if err != nil {
		middleware.GetLogger(c).WithError(err).Error("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to list jobs: " + err.Error(),
			"request_id": logger.GetRequestID(c.Request.Context()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJob handles GET /api/v1/jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.historyService.GetJob(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Run history is disabled",
		})
		return
	case errors.Is(err, service.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Job not found",
		})
		return
	case err != nil:
		middleware.GetLogger(c).WithError(err).Error("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to get job",
			"request_id": logger.GetRequestID(c.Request.Context()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

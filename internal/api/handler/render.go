package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/gustovivo/internal/api/middleware"
	"github.com/timmy/gustovivo/internal/domain"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/service"
)

// CategoryInfo describes a category for API clients.
type CategoryInfo struct {
	Name    domain.Category `json:"name"`
	Badge   string          `json:"badge"`
	Gallery bool            `json:"gallery"`
	Palette []string        `json:"palette"`
	Icons   []string        `json:"icons"`
}

// RenderHandler handles placeholder rendering endpoints.
type RenderHandler struct {
	previewService *service.PreviewService
}

// NewRenderHandler creates a new render handler.
func NewRenderHandler(previewService *service.PreviewService) *RenderHandler {
	return &RenderHandler{previewService: previewService}
}

// ListCategories handles GET /api/v1/categories.
func (h *RenderHandler) ListCategories(c *gin.Context) {
	categories := make([]CategoryInfo, 0, len(domain.AllCategories()))
	for _, cat := range domain.AllCategories() {
		categories = append(categories, CategoryInfo{
			Name:    cat,
			Badge:   cat.Badge(),
			Gallery: cat.IsGallery(),
			Palette: cat.Palette(),
			Icons:   cat.Icons(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// Render handles GET /api/v1/render/:category.
// Query: title, id, width, height, format (svg|png).
func (h *RenderHandler) Render(c *gin.Context) {
	width, err := queryInt(c, "width")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid width"})
		return
	}
	height, err := queryInt(c, "height")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid height"})
		return
	}

	res, err := h.previewService.Render(service.PreviewRequest{
		Category: c.Param("category"),
		Title:    c.Query("title"),
		ID:       c.Query("id"),
		Width:    width,
		Height:   height,
		Format:   c.Query("format"),
	})
	switch {
	case errors.Is(err, service.ErrUnknownCategory):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrInvalidSize), errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		middleware.GetLogger(c).WithError(err).Error("Render failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to render image",
			"request_id": logger.GetRequestID(c.Request.Context()),
		})
		return
	}

	middleware.GetLogger(c).WithFields(logger.Fields{
		logger.FieldCategory: c.Param("category"),
		"primary":            res.Style.Primary,
		"secondary":          res.Style.Secondary,
	}).Debug("Rendered placeholder")

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, res.ContentType, res.Data)
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

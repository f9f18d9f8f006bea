package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/timmy/gustovivo/internal/catalog"
	"github.com/timmy/gustovivo/internal/domain"
	"github.com/timmy/gustovivo/internal/raster"
	"github.com/timmy/gustovivo/internal/render"
)

var (
	// ErrUnknownCategory is returned for a category outside the palette table.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidSize is returned for dimensions outside MinSize..MaxSize.
	ErrInvalidSize = errors.New("invalid image size")
	// ErrUnsupportedFormat is returned for formats other than svg and png.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Bounds for on-demand renders.
const (
	MinSize = 16
	MaxSize = 4096
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// PreviewRequest describes a single on-demand placeholder.
type PreviewRequest struct {
	Category string
	Title    string
	ID       string
	Width    int
	Height   int
	Format   string
}

// PreviewResult is a rendered placeholder.
type PreviewResult struct {
	Data        []byte
	ContentType string
	Style       domain.Style
}

// PreviewService renders single placeholders outside a generation run.
type PreviewService struct {
	renderer *render.Renderer
	once     sync.Once
}

// NewPreviewService creates a preview service. A nil renderer is replaced by
// a randomly seeded one on first use.
func NewPreviewService(renderer *render.Renderer) *PreviewService {
	return &PreviewService{renderer: renderer}
}

// Render validates req and renders it. Zero sizes default to a gallery tile.
func (s *PreviewService) Render(req PreviewRequest) (*PreviewResult, error) {
	category, ok := domain.ParseCategory(req.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, req.Category)
	}

	if req.Width == 0 {
		req.Width = catalog.TileWidth
	}
	if req.Height == 0 {
		req.Height = catalog.TileHeight
	}
	if req.Width < MinSize || req.Width > MaxSize || req.Height < MinSize || req.Height > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d (allowed %d..%d)", ErrInvalidSize, req.Width, req.Height, MinSize, MaxSize)
	}

	format := strings.ToLower(req.Format)
	if format == "" {
		format = FormatSVG
	}
	if format != FormatSVG && format != FormatPNG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}

	if req.Title == "" {
		req.Title = category.Badge()
	}
	if req.ID == "" {
		req.ID = "1"
	}

	d := domain.Descriptor{
		Width:    req.Width,
		Height:   req.Height,
		Title:    req.Title,
		Category: category,
		ID:       req.ID,
		Kind:     domain.ImageKindGallery,
	}

	style := s.rendererOrDefault().PickStyle(category)
	if format == FormatPNG {
		data, err := raster.Render(d, style)
		if err != nil {
			return nil, fmt.Errorf("failed to render png: %w", err)
		}
		return &PreviewResult{Data: data, ContentType: raster.ContentType, Style: style}, nil
	}
	return &PreviewResult{Data: render.SVG(d, style), ContentType: render.ContentType, Style: style}, nil
}

func (s *PreviewService) rendererOrDefault() *render.Renderer {
	s.once.Do(func() {
		if s.renderer == nil {
			s.renderer = render.NewSeeded(rand.Uint64())
		}
	})
	return s.renderer
}

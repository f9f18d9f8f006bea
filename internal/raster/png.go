// Package raster draws PNG previews of placeholder images.
//
// Previews mirror the SVG composition (gradient, dot overlay, title, id
// caption, category badge) using the 7x13 bitmap face from x/image, so they
// can be shown where SVG is not accepted. Emoji icons are not drawn.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/timmy/gustovivo/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ContentType is the MIME type of rendered previews.
const ContentType = "image/png"

const (
	dotSpacing = 20
	dotRadius  = 2
)

var (
	white      = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	softWhite  = color.RGBA{0xFF, 0xFF, 0xFF, 0xCC}
	badgeFill  = color.RGBA{0x00, 0x00, 0x00, 0x99}
	shadowFill = color.RGBA{0x00, 0x00, 0x00, 0x4D}
)

// Render draws d with style and returns the encoded PNG.
func Render(d domain.Descriptor, style domain.Style) ([]byte, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", d.Width, d.Height)
	}
	from, err := ParseHex(style.Primary)
	if err != nil {
		return nil, err
	}
	to, err := ParseHex(style.Secondary)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	fillGradient(img, from, to)
	drawDots(img)

	cx := d.Width / 2
	drawCentered(img, cx+2, d.Height*60/100+2, d.Title, shadowFill)
	drawCentered(img, cx, d.Height*60/100, d.Title, white)
	drawCentered(img, cx, d.Height*75/100, "ID: "+d.ID, softWhite)

	badge := image.Rect(10, 10, 90, 35).Intersect(img.Bounds())
	draw.Draw(img, badge, image.NewUniform(badgeFill), image.Point{}, draw.Over)
	drawCentered(img, 50, 27, d.Category.Badge(), white)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHex converts "#RRGGBB" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// fillGradient paints a top-left to bottom-right linear gradient.
func fillGradient(img *image.RGBA, from, to color.RGBA) {
	b := img.Bounds()
	span := b.Dx() + b.Dy() - 2
	if span <= 0 {
		span = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := float64(x+y) / float64(span)
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 0xFF,
			})
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// drawDots lightens a small disc every dotSpacing pixels.
func drawDots(img *image.RGBA) {
	b := img.Bounds()
	for cy := dotSpacing / 2; cy < b.Dy(); cy += dotSpacing {
		for cx := dotSpacing / 2; cx < b.Dx(); cx += dotSpacing {
			for y := cy - dotRadius; y <= cy+dotRadius; y++ {
				for x := cx - dotRadius; x <= cx+dotRadius; x++ {
					if (x-cx)*(x-cx)+(y-cy)*(y-cy) > dotRadius*dotRadius || !image.Pt(x, y).In(b) {
						continue
					}
					c := img.RGBAAt(x, y)
					img.SetRGBA(x, y, color.RGBA{
						R: c.R + (0xFF-c.R)/10,
						G: c.G + (0xFF-c.G)/10,
						B: c.B + (0xFF-c.B)/10,
						A: 0xFF,
					})
				}
			}
		}
	}
}

// drawCentered writes label with its baseline at y, centred on x.
func drawCentered(img *image.RGBA, x, y int, label string, col color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	width := d.MeasureString(label)
	d.Dot = fixed.Point26_6{
		X: fixed.I(x) - width/2,
		Y: fixed.I(y),
	}
	d.DrawString(label)
}

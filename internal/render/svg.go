package render

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/timmy/gustovivo/internal/domain"
)

// ContentType is the MIME type of rendered documents.
const ContentType = "image/svg+xml"

const (
	fontFamily = "Arial, sans-serif"
	seedStream = 0x9e3779b97f4a7c15
)

// Rand is the source of random choices. *rand.Rand from math/rand/v2
// satisfies it; tests pass fixed sequences.
type Rand interface {
	IntN(n int) int
}

// Renderer builds placeholder SVG documents.
// It is safe for concurrent use.
type Renderer struct {
	mu  sync.Mutex
	rng Rand
}

// New creates a Renderer drawing its choices from rng.
func New(rng Rand) *Renderer {
	return &Renderer{rng: rng}
}

// NewSeeded creates a Renderer whose output is reproducible for seed.
func NewSeeded(seed uint64) *Renderer {
	return New(rand.New(rand.NewPCG(seed, seed^seedStream)))
}

// PickStyle chooses two distinct palette colours and an icon for c.
func (r *Renderer) PickStyle(c domain.Category) domain.Style {
	palette := c.Palette()
	icons := c.Icons()

	r.mu.Lock()
	defer r.mu.Unlock()

	primary := palette[r.rng.IntN(len(palette))]
	others := make([]string, 0, len(palette)-1)
	for _, col := range palette {
		if col != primary {
			others = append(others, col)
		}
	}
	secondary := primary
	if len(others) > 0 {
		secondary = others[r.rng.IntN(len(others))]
	}

	return domain.Style{
		Primary:   primary,
		Secondary: secondary,
		Icon:      icons[r.rng.IntN(len(icons))],
	}
}

// Render picks a style for d and returns the SVG document with the style used.
func (r *Renderer) Render(d domain.Descriptor) ([]byte, domain.Style) {
	style := r.PickStyle(d.Category)
	return SVG(d, style), style
}

// SVG draws d with the given style: gradient background, dot overlay, icon,
// shadowed title, id caption and a category badge in the top-left corner.
func SVG(d domain.Descriptor, style domain.Style) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	gradID := "grad" + d.ID
	shadowID := "shadow" + d.ID
	dotsID := "dots" + d.ID
	cx := d.Width / 2

	canvas.Start(d.Width, d.Height)
	canvas.Def()
	canvas.LinearGradient(gradID, 0, 0, 100, 100, []svg.Offcolor{
		{Offset: 0, Color: style.Primary, Opacity: 1},
		{Offset: 100, Color: style.Secondary, Opacity: 1},
	})
	canvas.Filter(shadowID)
	fmt.Fprintln(canvas.Writer, `<feDropShadow dx="2" dy="2" stdDeviation="3" flood-opacity="0.3"/>`)
	canvas.Fend()
	canvas.Pattern(dotsID, 0, 0, 20, 20, "user")
	canvas.Circle(10, 10, 2, "fill:rgba(255,255,255,0.1)")
	canvas.PatternEnd()
	canvas.DefEnd()

	comment(canvas, "Background")
	canvas.Rect(0, 0, d.Width, d.Height, fmt.Sprintf("fill:url(#%s)", gradID))
	canvas.Rect(0, 0, d.Width, d.Height, fmt.Sprintf("fill:url(#%s)", dotsID))

	comment(canvas, "Icon")
	canvas.Text(cx, percent(d.Height, 40), style.Icon,
		"text-anchor:middle;font-size:48px;fill:rgba(255,255,255,0.8)")

	comment(canvas, "Title")
	canvas.Text(cx, percent(d.Height, 60), d.Title,
		fmt.Sprintf("text-anchor:middle;font-family:%s;font-size:18px;font-weight:bold;fill:white;filter:url(#%s)", fontFamily, shadowID))

	comment(canvas, "ID")
	canvas.Text(cx, percent(d.Height, 75), "ID: "+d.ID,
		fmt.Sprintf("text-anchor:middle;font-family:%s;font-size:12px;fill:rgba(255,255,255,0.8)", fontFamily))

	comment(canvas, "Category badge")
	canvas.Roundrect(10, 10, 80, 25, 12, 12, "fill:rgba(0,0,0,0.6)")
	canvas.Text(50, 27, d.Category.Badge(),
		fmt.Sprintf("text-anchor:middle;font-family:%s;font-size:11px;font-weight:bold;fill:white", fontFamily))

	canvas.End()
	return buf.Bytes()
}

// comment writes an XML comment; svgo has no helper for it.
func comment(canvas *svg.SVG, text string) {
	fmt.Fprintf(canvas.Writer, "<!-- %s -->\n", text)
}

func percent(v, p int) int {
	return v * p / 100
}

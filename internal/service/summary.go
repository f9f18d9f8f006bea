package service

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/timmy/gustovivo/internal/domain"
)

var colourNotes = []struct {
	marker string
	label  string
	note   string
}{
	{"🔴", "Dishes", "red/orange"},
	{"🟤", "Interior", "brown/beige"},
	{"🟡", "Atmosphere", "gold/yellow"},
	{"🟥", "Events", "dark red/burgundy"},
}

// PrintSummary writes the human-readable run summary.
func PrintSummary(w io.Writer, s *GenerateStats) error {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ Images generated in %s/\n", strings.TrimSuffix(s.OutputDir, "/"))
	fmt.Fprintf(&b, "📁 Hero: %s\n", images(s.Hero))
	fmt.Fprintf(&b, "🍽️ Menu: %s\n", images(s.Menu))
	fmt.Fprintf(&b, "🖼️ Gallery: %s (%d padding variants)\n", images(s.Gallery), s.Padding)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, c := range domain.GalleryCategories() {
		fmt.Fprintf(tw, "   %s\t%d\n", c, s.GalleryByCategory[c])
	}
	tw.Flush()

	fmt.Fprintf(&b, "🏢 Logo: %s\n", images(s.Logo))
	if s.Previews > 0 {
		fmt.Fprintf(&b, "🖌️ PNG previews: %d\n", s.Previews)
	}
	if s.Pruned > 0 {
		fmt.Fprintf(&b, "🧹 Stale files removed: %d\n", s.Pruned)
	}
	if s.Uploaded > 0 || s.Skipped > 0 {
		fmt.Fprintf(&b, "☁️ Uploaded: %d objects (%d unchanged)\n", s.Uploaded, s.Skipped)
	}
	if s.Deleted > 0 {
		fmt.Fprintf(&b, "🗑️ Stale objects deleted: %d\n", s.Deleted)
	}
	fmt.Fprintf(&b, "🎲 Seed: %d\n", s.Seed)

	b.WriteString("\n🎨 All images are SVG, coloured by category:\n")
	for _, n := range colourNotes {
		fmt.Fprintf(&b, "%s %s: %s\n", n.marker, n.label, n.note)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func images(n int) string {
	if n == 1 {
		return "1 image"
	}
	return fmt.Sprintf("%d images", n)
}

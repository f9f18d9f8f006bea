package catalog

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/timmy/gustovivo/internal/domain"
)

// Rand is the source of random choices for padding.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Plan is the full list of images a run writes, in write order.
type Plan struct {
	Hero    []domain.Descriptor
	Menu    []domain.Descriptor
	Gallery []domain.Descriptor
	Logo    domain.Descriptor
}

// BuildPlan expands the static tables into descriptors and pads the gallery
// up to target images. A target below the literal title count adds nothing;
// literal titles are never dropped.
func BuildPlan(rng Rand, target int) *Plan {
	p := &Plan{}

	for _, e := range HeroImages {
		p.Hero = append(p.Hero, domain.Descriptor{
			Width:    HeroWidth,
			Height:   HeroHeight,
			Title:    e.Title,
			Category: e.Category,
			ID:       "1",
			Kind:     domain.ImageKindHero,
			Path:     path.Join(heroDir, PlaceholderName(e.Filename)),
		})
	}

	for i, e := range MenuDishes {
		p.Menu = append(p.Menu, domain.Descriptor{
			Width:    TileWidth,
			Height:   TileHeight,
			Title:    e.Title,
			Category: e.Category,
			ID:       strconv.Itoa(i + 1),
			Kind:     domain.ImageKindMenu,
			Path:     path.Join(menuDir, PlaceholderName(e.Filename)),
		})
	}

	next := make(map[domain.Category]int, len(GalleryTitles))
	for _, set := range GalleryTitles {
		for _, title := range set.Titles {
			next[set.Category]++
			p.Gallery = append(p.Gallery, galleryDescriptor(set.Category, next[set.Category], title, false))
		}
	}

	padding := target - LiteralGalleryCount()
	for i := 0; i < padding; i++ {
		set := GalleryTitles[rng.IntN(len(GalleryTitles))]
		base := set.Titles[rng.IntN(len(set.Titles))]
		next[set.Category]++
		id := next[set.Category]
		title := fmt.Sprintf("%s Variant %d", base, id)
		p.Gallery = append(p.Gallery, galleryDescriptor(set.Category, id, title, true))
	}

	p.Logo = domain.Descriptor{
		Width:    LogoSize,
		Height:   LogoSize,
		Title:    LogoTitle,
		Category: domain.CategoryHero,
		ID:       logoID,
		Kind:     domain.ImageKindLogo,
		Path:     LogoFilename,
	}

	return p
}

func galleryDescriptor(c domain.Category, id int, title string, padding bool) domain.Descriptor {
	return domain.Descriptor{
		Width:    TileWidth,
		Height:   TileHeight,
		Title:    title,
		Category: c,
		ID:       strconv.Itoa(id),
		Kind:     domain.ImageKindGallery,
		Path:     path.Join(galleryDir, string(c), GalleryFilename(c, id)),
		Padding:  padding,
	}
}

// All returns every descriptor in write order: hero, menu, gallery, logo.
func (p *Plan) All() []domain.Descriptor {
	all := make([]domain.Descriptor, 0, len(p.Hero)+len(p.Menu)+len(p.Gallery)+1)
	all = append(all, p.Hero...)
	all = append(all, p.Menu...)
	all = append(all, p.Gallery...)
	return append(all, p.Logo)
}

// PaddingCount returns how many gallery images carry synthetic titles.
func (p *Plan) PaddingCount() int {
	n := 0
	for _, d := range p.Gallery {
		if d.Padding {
			n++
		}
	}
	return n
}

// GalleryCounts returns the number of gallery images per category.
func (p *Plan) GalleryCounts() map[domain.Category]int {
	counts := make(map[domain.Category]int, len(GalleryTitles))
	for _, d := range p.Gallery {
		counts[d.Category]++
	}
	return counts
}

// GalleryPaths returns the set of gallery paths the plan writes.
func (p *Plan) GalleryPaths() map[string]struct{} {
	paths := make(map[string]struct{}, len(p.Gallery))
	for _, d := range p.Gallery {
		paths[d.Path] = struct{}{}
	}
	return paths
}

// LiteralGalleryCount returns the number of titles in the static gallery tables.
func LiteralGalleryCount() int {
	n := 0
	for _, set := range GalleryTitles {
		n += len(set.Titles)
	}
	return n
}

// GalleryFilename returns "{category}_{zero-padded id}.svg".
func GalleryFilename(c domain.Category, id int) string {
	return fmt.Sprintf("%s_%03d%s", c, id, svgExt)
}

// PlaceholderName maps a photo filename such as "carbonara.jpg" to the
// placeholder written in its place.
func PlaceholderName(filename string) string {
	if strings.HasSuffix(filename, sourceExt) {
		return strings.TrimSuffix(filename, sourceExt) + svgExt
	}
	if strings.HasSuffix(filename, svgExt) {
		return filename
	}
	return filename + svgExt
}

// Directories lists the output subdirectories, slash-separated.
func Directories() []string {
	dirs := []string{heroDir, menuDir, iconsDir}
	for _, c := range domain.GalleryCategories() {
		dirs = append(dirs, path.Join(galleryDir, string(c)))
	}
	return dirs
}

// GalleryDir returns the gallery subdirectory of a category.
func GalleryDir(c domain.Category) string {
	return path.Join(galleryDir, string(c))
}

package domain

import "strings"

// Category is the thematic label of a placeholder image.
// It selects the colour palette and the icon set used when rendering.
type Category string

const (
	CategoryDishes     Category = "dishes"
	CategoryInterior   Category = "interior"
	CategoryAtmosphere Category = "atmosphere"
	CategoryEvents     Category = "events"
	CategoryHero       Category = "hero"
	CategoryMenu       Category = "menu"
)

var (
	palettes = map[Category][]string{
		CategoryDishes:     {"#FF6B35", "#D73502", "#FFD23F"},
		CategoryInterior:   {"#8B4513", "#A0522D", "#D2B48C"},
		CategoryAtmosphere: {"#FFD700", "#FFA500", "#FF8C00"},
		CategoryEvents:     {"#C41E3A", "#8B0000", "#DC143C"},
		CategoryHero:       {"#4A2C2A", "#8B4513", "#CD853F"},
		CategoryMenu:       {"#FF6B35", "#C41E3A", "#FFD23F"},
	}

	icons = map[Category][]string{
		CategoryDishes:     {"🍝", "🍕", "🥘", "🍲", "🥗", "🍖", "🧀", "🍷"},
		CategoryInterior:   {"🪑", "🛏️", "🕯️", "🖼️", "🌿", "💡"},
		CategoryAtmosphere: {"✨", "🌟", "💫", "🎭", "🎪", "🎨"},
		CategoryEvents:     {"🎉", "🎂", "🥂", "🎊", "💒", "🎈"},
		CategoryHero:       {"🍴", "👨‍🍳", "🏛️"},
		CategoryMenu:       {"📋", "📖", "📜"},
	}

	fallbackPalette = []string{"#666666", "#999999", "#CCCCCC"}
	fallbackIcons   = []string{"🍽️"}
)

// GalleryCategories returns the four gallery categories in output order.
func GalleryCategories() []Category {
	return []Category{CategoryDishes, CategoryInterior, CategoryAtmosphere, CategoryEvents}
}

// AllCategories returns every known category, gallery ones first.
func AllCategories() []Category {
	return append(GalleryCategories(), CategoryHero, CategoryMenu)
}

// ParseCategory converts a raw label into a known Category.
// Returns:
//   - Category: the normalized category.
//   - bool: false when the label is not a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := palettes[c]
	return ok
}

// Palette returns a copy of the category's three-colour palette.
// Unknown categories get a neutral grey palette.
func (c Category) Palette() []string {
	p, ok := palettes[c]
	if !ok {
		p = fallbackPalette
	}
	return append([]string(nil), p...)
}

// Icons returns a copy of the category's icon glyphs.
func (c Category) Icons() []string {
	i, ok := icons[c]
	if !ok {
		i = fallbackIcons
	}
	return append([]string(nil), i...)
}

// Badge returns the text shown in the category badge.
func (c Category) Badge() string {
	return strings.ToUpper(string(c))
}

// IsGallery reports whether images of this category belong to the gallery.
func (c Category) IsGallery() bool {
	switch c {
	case CategoryDishes, CategoryInterior, CategoryAtmosphere, CategoryEvents:
		return true
	}
	return false
}

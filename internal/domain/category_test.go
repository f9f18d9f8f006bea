package domain

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input  string
		want   Category
		wantOK bool
	}{
		{"dishes", CategoryDishes, true},
		{" Interior ", CategoryInterior, true},
		{"EVENTS", CategoryEvents, true},
		{"menu", CategoryMenu, true},
		{"desserts", Category("desserts"), false},
		{"", Category(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPaletteAndIcons(t *testing.T) {
	for _, c := range AllCategories() {
		if len(c.Palette()) != 3 {
			t.Errorf("%s palette has %d colours, want 3", c, len(c.Palette()))
		}
		if len(c.Icons()) == 0 {
			t.Errorf("%s has no icons", c)
		}
	}

	unknown := Category("desserts")
	if p := unknown.Palette(); p[0] != "#666666" || p[1] != "#999999" || p[2] != "#CCCCCC" {
		t.Errorf("fallback palette = %v", p)
	}
	if i := unknown.Icons(); len(i) != 1 || i[0] != "🍽️" {
		t.Errorf("fallback icons = %v", i)
	}
}

func TestPaletteReturnsCopy(t *testing.T) {
	p := CategoryDishes.Palette()
	p[0] = "#000000"
	if CategoryDishes.Palette()[0] != "#FF6B35" {
		t.Error("Palette() exposes the shared table")
	}
}

func TestBadgeAndGallery(t *testing.T) {
	if got := CategoryAtmosphere.Badge(); got != "ATMOSPHERE" {
		t.Errorf("Badge() = %q, want ATMOSPHERE", got)
	}
	for _, c := range GalleryCategories() {
		if !c.IsGallery() {
			t.Errorf("%s.IsGallery() = false", c)
		}
	}
	if CategoryHero.IsGallery() || CategoryMenu.IsGallery() {
		t.Error("hero and menu must not be gallery categories")
	}
}

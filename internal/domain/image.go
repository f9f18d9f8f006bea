package domain

// ImageKind tells which part of the site an image belongs to.
type ImageKind string

const (
	ImageKindHero    ImageKind = "hero"
	ImageKindMenu    ImageKind = "menu"
	ImageKindGallery ImageKind = "gallery"
	ImageKindLogo    ImageKind = "logo"
)

// Descriptor holds everything needed to render and place one image.
// Descriptors are transient: built by the catalog, rendered, then dropped.
//
// ID is a numeric sequence or a literal such as "logo". Path is
// slash-separated and relative to the output root. Padding marks synthetic
// titles added to reach the gallery target.
type Descriptor struct {
	Width    int
	Height   int
	Title    string
	Category Category
	ID       string
	Kind     ImageKind
	Path     string
	Padding  bool
}

// Style holds the random choices made for one image.
type Style struct {
	Primary   string
	Secondary string
	Icon      string
}

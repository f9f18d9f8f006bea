package catalog

import "github.com/timmy/gustovivo/internal/domain"

// Entry is a literal image from the static tables.
type Entry struct {
	Filename string
	Title    string
	Category domain.Category
}

// GallerySet is the ordered list of literal titles for one gallery category.
type GallerySet struct {
	Category domain.Category
	Titles   []string
}

// HeroImages lists the hero banners.
var HeroImages = []Entry{
	{Filename: "signature-dish.jpg", Title: "Piatto Signature", Category: domain.CategoryHero},
}

// MenuDishes lists the menu photos; they are written to dishes/.
var MenuDishes = []Entry{
	{Filename: "antipasto-misto.jpg", Title: "Antipasto Misto", Category: domain.CategoryMenu},
	{Filename: "carbonara.jpg", Title: "Carbonara", Category: domain.CategoryMenu},
	{Filename: "cacio-pepe.jpg", Title: "Cacio e Pepe", Category: domain.CategoryMenu},
	{Filename: "saltimbocca.jpg", Title: "Saltimbocca", Category: domain.CategoryMenu},
	{Filename: "branzino.jpg", Title: "Branzino", Category: domain.CategoryMenu},
	{Filename: "tiramisu.jpg", Title: "Tiramisù", Category: domain.CategoryMenu},
}

// GalleryTitles holds the literal gallery titles per category, in output order.
var GalleryTitles = []GallerySet{
	{
		Category: domain.CategoryDishes,
		Titles: []string{
			"Spaghetti Carbonara", "Pizza Margherita", "Risotto ai Funghi", "Osso Buco",
			"Tiramisù", "Panna Cotta", "Bruschetta", "Antipasto Misto", "Lasagne",
			"Gnocchi al Pomodoro", "Saltimbocca", "Cacio e Pepe", "Amatriciana",
			"Parmigiana", "Cannoli", "Gelato Artigianale", "Carpaccio", "Minestrone",
			"Pasta alla Norma", "Vitello Tonnato", "Caprese", "Arancini", "Focaccia",
			"Ribollita", "Cacciucco", "Bistecca Fiorentina", "Pasta all'Arrabbiata",
			"Scaloppine", "Involtini", "Pasta e Fagioli",
		},
	},
	{
		Category: domain.CategoryInterior,
		Titles: []string{
			"Sala Principale", "Terrazza Panoramica", "Angolo Wine Bar", "Cucina a Vista",
			"Ingresso Elegante", "Sala Privata", "Giardino Interno", "Bar Centrale",
			"Zona Degustazione", "Cantina Vini", "Sala Banchetti", "Veranda Estiva",
			"Tavolo Chef", "Angolo Lettura", "Salottino", "Bancone Marmo",
			"Soffitto Affrescato", "Camino Antico", "Biblioteca Vini", "Tavolo Imperiale",
		},
	},
	{
		Category: domain.CategoryAtmosphere,
		Titles: []string{
			"Cena Romantica", "Aperitivo Serale", "Brunch Weekend", "Cena Famiglia",
			"Business Lunch", "Degustazione Vini", "Chef al Lavoro", "Servizio Tavolo",
			"Momenti Conviviali", "Tramonto Terrazza", "Candele Accese", "Risate Tavolo",
			"Toast Celebrativo", "Preparazione Pasta", "Servizio Cameriere", "Tavolo Apparecchiato",
		},
	},
	{
		Category: domain.CategoryEvents,
		Titles: []string{
			"Matrimonio Elegante", "Compleanno Speciale", "Anniversario", "Festa Aziendale",
			"Degustazione Guidata", "Cooking Class", "Wine Tasting", "Evento Privato",
			"Cena di Gala", "Festa Laurea", "Baby Shower", "Addio al Celibato",
			"Comunione", "Cresima", "Festa Pensionamento", "Inaugurazione",
		},
	},
}

const (
	// DefaultGalleryTarget is the number of gallery images a run produces.
	DefaultGalleryTarget = 300

	// LogoTitle is the restaurant name printed on the logo placeholder.
	LogoTitle = "La Tavola d'Oro"

	// LogoFilename is written at the output root.
	LogoFilename = "logo.svg"
)

// Image dimensions in pixels.
const (
	HeroWidth  = 1200
	HeroHeight = 800
	TileWidth  = 400
	TileHeight = 300
	LogoSize   = 100
)

const (
	logoID     = "logo"
	heroDir    = "hero"
	menuDir    = "dishes"
	galleryDir = "gallery"
	iconsDir   = "icons"
	sourceExt  = ".jpg"
	svgExt     = ".svg"
)

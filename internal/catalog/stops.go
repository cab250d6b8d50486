package catalog

var defaultCatalog = MustNew(
	Stop{Key: "mexico", Name: "Mexico", Emoji: "🇲🇽", Hint: "Strong cocktails early. Don't sprint.",
		Suggestions: [2]string{"Margarita", "Cerveza"}, DefaultPhoto: "photos/mexico.jpg"},
	Stop{Key: "norway", Name: "Norway", Emoji: "🇳🇴", Hint: "Sneaky strength. Hydration check.",
		Suggestions: [2]string{"Viking Coffee", "Frozen Aquavit"}, DefaultPhoto: "photos/norway.jpg"},
	Stop{Key: "china", Name: "China", Emoji: "🇨🇳", Hint: "Sweet drinks can hit harder than you think.",
		Suggestions: [2]string{"Tipsy Ducks in Love", "Tsingtao"}, DefaultPhoto: "photos/china.jpg"},
	Stop{Key: "germany", Name: "Germany", Emoji: "🇩🇪", Hint: "Big beers & heavy pours. Food stop recommended.",
		Suggestions: [2]string{"Hefeweizen", "Riesling"}, DefaultPhoto: "photos/germany.jpg"},
	Stop{Key: "italy", Name: "Italy", Emoji: "🇮🇹", Hint: "This is where people go too hard. Slow down.",
		Suggestions: [2]string{"Bellini", "Chianti"}, DefaultPhoto: "photos/italy.jpg"},
	Stop{Key: "usa", Name: "America", Emoji: "🇺🇸", Hint: "Eat something. Don't double up.",
		Suggestions: [2]string{"Craft Lager", "Frozen Lemonade"}, DefaultPhoto: "photos/usa.jpg"},
	Stop{Key: "japan", Name: "Japan", Emoji: "🇯🇵", Hint: "Clean flavors, strong pours. Water before moving on.",
		Suggestions: [2]string{"Plum Wine", "Sake Flight"}, DefaultPhoto: "photos/japan.jpg"},
	Stop{Key: "morocco", Name: "Morocco", Emoji: "🇲🇦", Hint: "Sneaky cocktails. Hydrate.",
		Suggestions: [2]string{"Casablanca Beer", "Mint Tea Cocktail"}, DefaultPhoto: "photos/morocco.jpg"},
	Stop{Key: "france", Name: "France", Emoji: "🇫🇷", Hint: "Champagne + heat = surprise knockout.",
		Suggestions: [2]string{"Grand Marnier Slush", "Champagne"}, DefaultPhoto: "photos/france.jpg"},
	Stop{Key: "uk", Name: "UK", Emoji: "🇬🇧", Hint: "Danger zone. If you're wobbling, pause here.",
		Suggestions: [2]string{"Pint of Bitter", "Pimm's Cup"}, DefaultPhoto: "photos/uk.jpg"},
	Stop{Key: "canada", Name: "Canada", Emoji: "🇨🇦", Hint: "Victory lap. You earned it.",
		Suggestions: [2]string{"Maple Old Fashioned", "Ice Wine"}, DefaultPhoto: "photos/canada.jpg"},
)

// Default returns the eleven-stop World Showcase itinerary.
func Default() *Catalog {
	return defaultCatalog
}

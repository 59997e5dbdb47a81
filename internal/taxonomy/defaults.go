package taxonomy

import "larder/internal/model"

// Fallback is the category assigned when nothing better is known. It cannot
// be removed.
const Fallback = "Autre"

// FallbackZone is used when a location somehow has no zones.
const FallbackZone = "Zone 1"

var defaultCategories = map[model.Location][]string{
	model.LocationFreezer: {
		"Viande",
		"Poisson",
		"Légumes",
		"Fruits",
		"Plats préparés",
		"Pain/Pâtisserie",
		"Glaces/Desserts",
		"Condiments/Sauces",
		"Autre",
	},
	model.LocationFridge: {
		"Viande/Charcuterie",
		"Poisson/Fruits de mer",
		"Produits laitiers",
		"Fromages",
		"Légumes frais",
		"Fruits frais",
		"Boissons",
		"Sauces/Condiments",
		"Plats préparés",
		"Autre",
	},
	model.LocationPantry: {
		"Conserves",
		"Pâtes/Riz/Céréales",
		"Farines/Sucres",
		"Huiles/Vinaigres",
		"Épices/Aromates",
		"Biscuits/Gâteaux secs",
		"Boissons",
		"Condiments/Sauces",
		"Produits d'épicerie",
		"Produits ménagers",
		"Hygiène & Cosmétiques",
		"Papeterie & Fournitures",
		"Médicaments & Santé",
		"Autre",
	},
}

var defaultZones = map[model.Location][]string{
	model.LocationFreezer: {"Zone 1", "Zone 2", "Zone 3"},
	model.LocationFridge:  {"Zone 1", "Zone 2", "Zone 3"},
	model.LocationPantry:  {"Zone 1", "Zone 2", "Zone 3"},
}

// Defaults returns a fresh copy of the built-in list for kind and location.
func Defaults(kind Kind, loc model.Location) []string {
	table := defaultCategories
	if kind == KindZone {
		table = defaultZones
	}
	return append([]string(nil), table[loc]...)
}

// DefaultLists returns the built-in lists of kind for every location.
func DefaultLists(kind Kind) Lists {
	lists := make(Lists, len(model.Locations))
	for _, loc := range model.Locations {
		lists[loc] = Defaults(kind, loc)
	}
	return lists
}

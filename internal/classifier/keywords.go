package classifier

// DefaultKeywords maps a category name to the synonyms and stems (French and
// English, plus Open Food Facts tag vocabulary) that identify it.
var DefaultKeywords = map[string][]string{
	// Freezer
	"Viande":            {"meat", "viande", "viandes", "beef", "boeuf", "bœuf", "pork", "porc", "chicken", "poulet", "poultry", "volaille", "lamb", "agneau", "veal", "veau", "turkey", "dinde", "canard", "duck"},
	"Poisson":           {"fish", "poisson", "poissons", "seafood", "salmon", "saumon", "tuna", "thon", "shrimp", "crevette", "cod", "cabillaud", "morue", "haddock", "shellfish", "truite", "trout"},
	"Légumes":           {"vegetable", "legume", "légume", "légumes", "carrot", "carotte", "tomato", "tomate", "potato", "pomme de terre", "onion", "oignon", "pepper", "poivron", "broccoli", "brocoli", "haricot", "bean"},
	"Fruits":            {"fruit", "fruits", "berry", "berries", "baie", "apple", "pomme", "orange", "banana", "banane", "strawberry", "fraise", "mango", "mangue", "peach", "pêche", "poire", "pear"},
	"Produits laitiers": {"dairy", "lait", "laitier", "milk", "cream", "crème", "butter", "beurre", "creme", "yaourt", "yogurt"},
	"Plats préparés":    {"prepared", "préparé", "meal", "plat", "pizza", "pizzas", "ready", "frozen-meals", "lasagna", "lasagne", "quiche", "gratin"},
	"Pain/Pâtisserie":   {"bread", "pain", "pains", "pastry", "pâtisserie", "patisserie", "cake", "gâteau", "gateau", "biscuit", "croissant", "croissants", "brioche"},
	"Glaces/Desserts":   {"ice-cream", "ice cream", "glace", "glaces", "dessert", "desserts", "sweet", "sorbet", "sorbets", "frozen-dessert"},
	"Condiments/Sauces": {"sauce", "sauces", "condiment", "condiments", "dressing", "ketchup", "mustard", "moutarde", "mayonnaise", "mayo"},

	// Fridge
	"Viande/Charcuterie":    {"meat", "viande", "viandes", "charcuterie", "sausage", "saucisse", "saucisson", "ham", "jambon", "bacon", "salami", "deli", "pâté", "pate", "rillette"},
	"Poisson/Fruits de mer": {"fish", "poisson", "poissons", "seafood", "salmon", "saumon", "tuna", "thon", "shrimp", "crevette", "crab", "crabe", "oyster", "huître", "moule", "mussel"},
	"Fromages":              {"cheese", "fromage", "fromages", "cheddar", "mozzarella", "parmesan", "brie", "camembert", "comté", "comte", "emmental", "roquefort", "chèvre", "chevre"},
	"Légumes frais":         {"vegetable", "legume", "légume", "légumes", "fresh-vegetable", "salad", "salade", "lettuce", "laitue", "cucumber", "concombre", "tomate", "tomato", "radis"},
	"Fruits frais":          {"fruit", "fruits", "fresh-fruit", "berries", "baies", "citrus", "agrume", "tropical-fruit", "frais", "fresh"},
	"Boissons":              {"beverage", "drink", "boisson", "boissons", "juice", "jus", "soda", "water", "eau", "milk", "lait", "bière", "beer"},
	"Sauces/Condiments":     {"sauce", "sauces", "condiment", "condiments", "dressing", "marinade", "pesto", "aioli", "aïoli", "ketchup", "moutarde", "mustard"},

	// Pantry, food
	"Conserves":             {"canned", "conserve", "preserved", "tinned", "jarred", "boite", "boîte"},
	"Pâtes/Riz/Céréales":    {"pasta", "rice", "cereal", "pates", "pâtes", "riz", "grain", "noodles", "spaghetti", "macaroni", "vermicelle"},
	"Farines/Sucres":        {"flour", "sugar", "farine", "farines", "sucre", "sucres", "sweetener", "baking", "levure", "yeast"},
	"Huiles/Vinaigres":      {"oil", "vinegar", "huile", "huiles", "vinaigre", "vinaigres", "olive-oil", "sunflower", "colza"},
	"Épices/Aromates":       {"spice", "herb", "epice", "épice", "aromate", "pepper", "cumin", "paprika", "thym", "basilic", "sel", "salt", "poivre"},
	"Biscuits/Gâteaux secs": {"biscuit", "biscuits", "cookie", "cookies", "cracker", "crackers", "wafer", "dry-cake", "gâteau", "gateau"},
	"Produits d'épicerie":   {"grocery", "epicerie", "épicerie", "snack", "dried-food", "sec", "dry", "spread", "spreads", "pâte à tartiner", "pate a tartiner", "chocolate", "chocolat", "hazelnut", "noisette", "nutella", "jam", "confiture", "marmelade", "honey", "miel"},
	"Œufs":                  {"egg", "oeuf", "œuf", "eggs", "oeufs", "œufs"},

	// Pantry, household
	"Produits ménagers": {
		"detergent", "lessive", "laundry", "bleach", "javel", "cleaner", "nettoyant",
		"dishwashing", "vaisselle", "floor", "sol", "window", "vitre", "disinfectant",
		"désinfectant", "sponge", "éponge", "trash", "poubelle", "bag", "sac",
	},
	"Hygiène & Cosmétiques": {
		"soap", "savon", "shampoo", "shampooing", "gel", "shower", "douche",
		"toothpaste", "dentifrice", "deodorant", "déodorant", "perfume", "parfum",
		"cream", "crème", "lotion", "cosmetic", "cosmétique", "makeup", "maquillage",
		"razor", "rasoir", "tissue", "mouchoir", "cotton", "coton", "hygiene", "hygiène",
	},
	"Papeterie & Fournitures": {
		"paper", "papier", "pen", "stylo", "pencil", "crayon", "notebook", "cahier",
		"envelope", "enveloppe", "tape", "scotch", "adhesif", "glue", "colle",
		"stapler", "agrafeuse", "folder", "classeur", "label", "étiquette",
		"marker", "marqueur", "scissors", "ciseaux", "clip", "trombone",
	},
	"Médicaments & Santé": {
		"medicine", "médicament", "pill", "pilule", "tablet", "comprimé",
		"capsule", "syrup", "sirop", "drops", "gouttes", "ointment", "pommade",
		"bandage", "pansement", "gauze", "compresse", "antiseptic", "antiseptique",
		"vitamin", "vitamine", "supplement", "complément", "painkiller", "analgésique",
		"antibiotic", "antibiotique", "prescription", "ordonnance", "pharmacy", "pharmacie",
	},
}

package model

import "fmt"

// Location is one of the fixed storage places a product can live in.
type Location string

const (
	LocationFreezer Location = "freezer"
	LocationFridge  Location = "fridge"
	LocationPantry  Location = "pantry"
)

// Locations lists every storage location in display order.
var Locations = []Location{LocationFreezer, LocationFridge, LocationPantry}

var locationNames = map[Location]string{
	LocationFreezer: "Congélateur",
	LocationFridge:  "Réfrigérateur",
	LocationPantry:  "Réserves",
}

// Valid reports whether l is a known storage location.
func (l Location) Valid() bool {
	_, ok := locationNames[l]
	return ok
}

// DisplayName returns the human-readable name of the location.
func (l Location) DisplayName() string {
	if name, ok := locationNames[l]; ok {
		return name
	}
	return string(l)
}

// ParseLocation converts a raw string into a Location.
func ParseLocation(s string) (Location, error) {
	l := Location(s)
	if !l.Valid() {
		return "", NewDomainError(ErrCodeInvalidLocation, fmt.Sprintf("unknown location %q (must be freezer, fridge or pantry)", s))
	}
	return l, nil
}

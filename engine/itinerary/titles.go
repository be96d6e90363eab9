package itinerary

import "strings"

var placePrefixes = []string{"lunch at ", "dinner at ", "visit "}

// PlaceName strips a leading "Lunch at ", "Dinner at " or "Visit " from a
// title, ignoring case.
func PlaceName(title string) string {
	lower := strings.ToLower(title)
	for _, prefix := range placePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return title[len(prefix):]
		}
	}
	return title
}

// MealTitle returns the display title for a meal of type t at the place named
// in title. Non-meal titles are returned as-is.
func MealTitle(t ItemType, title string) string {
	switch t {
	case TypeMealLunch:
		return "Lunch at " + PlaceName(title)
	case TypeMealDinner:
		return "Dinner at " + PlaceName(title)
	default:
		return title
	}
}

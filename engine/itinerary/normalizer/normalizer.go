package normalizer

import (
	"slices"

	"github.com/wanderly/wanderly/engine/itinerary"
)

// Normalize enforces slot placement and meal uniqueness on a canonical state.
//
// Items with a slot outside their type's allowed set are moved to the first
// allowed slot, meals are retitled "Lunch at <place>" / "Dinner at <place>",
// items are stably sorted by (day, slot), and only the first lunch and the
// first dinner of each day survive. Non-meal items are never dropped.
// The input is not modified.
func Normalize(state *itinerary.State) *itinerary.State {
	out := state.Clone()
	for i := range out.Items {
		fixItem(&out.Items[i])
	}
	slices.SortStableFunc(out.Items, compareDaySlot)
	out.Items = dedupeMeals(out.Items)
	return out
}

func fixItem(item *itinerary.Item) {
	item.Slot = itinerary.ClampSlot(item.Type, item.Slot)
	if item.Type.IsMeal() {
		item.Title = itinerary.MealTitle(item.Type, item.Title)
	}
}

func compareDaySlot(a, b itinerary.Item) int {
	if a.Day != b.Day {
		return a.Day - b.Day
	}
	return a.Slot.Weight() - b.Slot.Weight()
}

// dedupeMeals keeps the first lunch and first dinner of every day. Items
// must already be grouped by day.
func dedupeMeals(items []itinerary.Item) []itinerary.Item {
	type seen struct{ lunch, dinner bool }
	byDay := make(map[int]*seen)
	out := make([]itinerary.Item, 0, len(items))
	for _, item := range items {
		s, ok := byDay[item.Day]
		if !ok {
			s = &seen{}
			byDay[item.Day] = s
		}
		switch item.Type {
		case itinerary.TypeMealLunch:
			if s.lunch {
				continue
			}
			s.lunch = true
		case itinerary.TypeMealDinner:
			if s.dinner {
				continue
			}
			s.dinner = true
		}
		out = append(out, item)
	}
	return out
}

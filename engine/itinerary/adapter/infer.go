package adapter

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

// DefaultVisitMins is used when a duration is absent or unparseable.
//
// NOTE: draft generation elsewhere defaults to "90 mins". The two defaults
// disagree; this one is kept at 60 for compatibility with stored documents.
const DefaultVisitMins = 60

var leadingInt = regexp.MustCompile(`^\s*(\d+)`)

// InferType maps a block's free-form tags onto the closed item type set.
func InferType(b *legacy.Block) itinerary.ItemType {
	switch b.MealKind() {
	case legacy.MealLunch:
		return itinerary.TypeMealLunch
	case legacy.MealDinner:
		return itinerary.TypeMealDinner
	}
	if b.IsRest() {
		return itinerary.TypeRest
	}
	return itinerary.TypeAttraction
}

// InferSlot derives a slot from a block's slot tag and display time.
// "morning" anywhere wins, then "evening" or a bare "07:00"; everything else
// is the afternoon.
func InferSlot(slot, displayTime string) itinerary.Slot {
	s := strings.ToLower(slot)
	t := strings.ToLower(strings.TrimSpace(displayTime))
	switch {
	case strings.Contains(s, "morning") || strings.Contains(t, "morning"):
		return itinerary.SlotMorning
	case strings.Contains(s, "evening") || strings.Contains(t, "evening") || t == "07:00":
		return itinerary.SlotEvening
	default:
		return itinerary.SlotAfternoon
	}
}

// ParseDuration converts a display duration such as "2 hours" or "45 mins"
// into minutes. Only the leading integer is read, so "1.5 hours" is 60.
// Values that do not fit in an int fall back to DefaultVisitMins.
func ParseDuration(duration string) int {
	if strings.TrimSpace(duration) == "" {
		return DefaultVisitMins
	}
	lower := strings.ToLower(duration)
	n, ok := leadingNumber(lower)
	switch {
	case strings.Contains(lower, "hour"):
		if !ok || n > math.MaxInt/60 {
			return DefaultVisitMins
		}
		return n * 60
	case strings.Contains(lower, "min"):
		if !ok {
			return DefaultVisitMins
		}
		return n
	default:
		return DefaultVisitMins
	}
}

func leadingNumber(s string) (int, bool) {
	m := leadingInt.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SlotLabel is the display form of a slot written into legacy blocks.
func SlotLabel(s itinerary.Slot) string {
	switch s {
	case itinerary.SlotMorning:
		return "Morning"
	case itinerary.SlotEvening:
		return "Evening"
	default:
		return "Afternoon"
	}
}

// DisplayTime returns the block time string for an item. Meal times take
// priority over the slot label.
func DisplayTime(t itinerary.ItemType, s itinerary.Slot) string {
	switch t {
	case itinerary.TypeMealLunch:
		return legacy.LunchTime
	case itinerary.TypeMealDinner:
		return legacy.DinnerTime
	default:
		return SlotLabel(s)
	}
}

// TypeTags returns the legacy type and mealType tags for an item type.
func TypeTags(t itinerary.ItemType) (blockType, mealType string) {
	switch t {
	case itinerary.TypeMealLunch:
		return legacy.BlockMeal, legacy.MealLunch
	case itinerary.TypeMealDinner:
		return legacy.BlockMeal, legacy.MealDinner
	case itinerary.TypeRest:
		return legacy.BlockOther, ""
	default:
		return legacy.BlockAttraction, ""
	}
}

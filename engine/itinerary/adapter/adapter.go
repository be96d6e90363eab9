// Package adapter is the only translation boundary between the persisted
// legacy document and the canonical item model. Legacy strings (type,
// mealType, slot, time, duration) become closed enums here and nowhere else.
package adapter

import (
	"fmt"
	"strconv"

	"github.com/wanderly/wanderly/engine/core"
	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

// ToCoreState flattens every block of every day into a canonical item.
// The returned state carries no metadata and shares no memory with doc.
func ToCoreState(doc *legacy.Document) *itinerary.State {
	state := &itinerary.State{Items: []itinerary.Item{}}
	if doc == nil {
		return state
	}
	for _, day := range doc.Days {
		for idx := range day.Blocks {
			state.Items = append(state.Items, toItem(day.Day, idx, &day.Blocks[idx]))
		}
	}
	return state
}

func toItem(day, position int, b *legacy.Block) itinerary.Item {
	id := b.ID
	if id == "" {
		id = core.DeriveID(strconv.Itoa(day), strconv.Itoa(position), b.Activity).String()
	}
	item := itinerary.Item{
		ID:            id,
		Title:         b.Activity,
		Type:          InferType(b),
		Slot:          InferSlot(b.Slot, b.Time),
		Day:           day,
		EstVisitMins:  ParseDuration(b.Duration),
		EstTravelMins: 0,
		Cuisine:       b.Cuisine,
		Description:   b.Description,
		Location:      b.Location,
		Category:      b.Category,
		Sources:       itinerary.ClonePayload(b.Sources),
		Explanation:   itinerary.ClonePayload(b.Explanation),
	}
	if b.Coordinates != nil {
		coords := *b.Coordinates
		item.Coordinates = &coords
	}
	return item
}

// ToLegacyItinerary groups items by day and emits contiguous days
// 1..max(day). Item order within a day is preserved as given; callers are
// expected to pass canonical order, usually straight from the reconstructor.
// Days without items are emitted with an empty block list. Items on days
// below 1 or above itinerary.MaxTripDays have no place in the legacy form and
// are dropped.
func ToLegacyItinerary(state *itinerary.State, title string) *legacy.Document {
	doc := &legacy.Document{Title: title, Days: []legacy.Day{}}
	if state == nil {
		return doc
	}
	byDay := make(map[int][]legacy.Block)
	maxDay := 0
	for i := range state.Items {
		item := &state.Items[i]
		if item.Day < 1 || item.Day > itinerary.MaxTripDays {
			continue
		}
		byDay[item.Day] = append(byDay[item.Day], toBlock(item))
		maxDay = max(maxDay, item.Day)
	}
	for day := 1; day <= maxDay; day++ {
		blocks := byDay[day]
		if blocks == nil {
			blocks = []legacy.Block{}
		}
		doc.Days = append(doc.Days, legacy.Day{Day: day, Blocks: blocks})
	}
	return doc
}

func toBlock(item *itinerary.Item) legacy.Block {
	block := legacy.Block{
		ID:          item.ID,
		Time:        DisplayTime(item.Type, item.Slot),
		Activity:    item.Title,
		Duration:    fmt.Sprintf("%d mins", item.EstVisitMins),
		Description: item.Description,
		Slot:        SlotLabel(item.Slot),
		Fixed:       item.Type.IsFixed(),
		Cuisine:     item.Cuisine,
		Location:    item.Location,
		Category:    item.Category,
		Sources:     itinerary.ClonePayload(item.Sources),
		Explanation: itinerary.ClonePayload(item.Explanation),
	}
	block.Type, block.MealType = TypeTags(item.Type)
	if item.Coordinates != nil {
		coords := *item.Coordinates
		block.Coordinates = &coords
	}
	return block
}

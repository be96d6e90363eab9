package reconstruct

import (
	"slices"

	"github.com/wanderly/wanderly/engine/itinerary"
)

// Section caps. They do not vary with trip pace; pace only shapes how many
// activities the generator produces before they reach this package.
const (
	MorningCap   = 2
	AfternoonCap = 2
)

// Reconstruct rebuilds every day from its bag of items using the fixed
// template morning, lunch, afternoon, dinner, evening.
//
// Days are emitted in ascending order. Within a day, items are partitioned by
// type only, so the previously assigned slot never influences placement and
// running Reconstruct on its own output changes nothing. Only the first lunch
// and first dinner of a day are kept. Up to MorningCap activities open the
// day, up to AfternoonCap follow lunch, and every remaining activity goes to
// the evening. Rest items cannot open the day; they wait for the afternoon.
// The input is not modified.
func Reconstruct(state *itinerary.State) *itinerary.State {
	src := state.Clone()
	out := &itinerary.State{Items: make([]itinerary.Item, 0, len(src.Items)), Metadata: src.Metadata}
	for _, day := range days(src.Items) {
		out.Items = append(out.Items, rebuildDay(src.Items, day)...)
	}
	return out
}

func days(items []itinerary.Item) []int {
	var out []int
	for _, item := range items {
		if !slices.Contains(out, item.Day) {
			out = append(out, item.Day)
		}
	}
	slices.Sort(out)
	return out
}

type dayBag struct {
	lunch      *itinerary.Item
	dinner     *itinerary.Item
	activities []itinerary.Item
}

func partition(items []itinerary.Item, day int) dayBag {
	var bag dayBag
	for i := range items {
		item := items[i]
		if item.Day != day {
			continue
		}
		switch item.Type {
		case itinerary.TypeMealLunch:
			if bag.lunch == nil {
				bag.lunch = &item
			}
		case itinerary.TypeMealDinner:
			if bag.dinner == nil {
				bag.dinner = &item
			}
		default:
			bag.activities = append(bag.activities, item)
		}
	}
	return bag
}

func rebuildDay(items []itinerary.Item, day int) []itinerary.Item {
	bag := partition(items, day)
	queue := bag.activities
	out := make([]itinerary.Item, 0, len(queue)+2)

	var morning []itinerary.Item
	morning, queue = takeFitting(queue, MorningCap, itinerary.SlotMorning)
	out = appendInSlot(out, morning, itinerary.SlotMorning)

	if bag.lunch != nil {
		out = append(out, placeMeal(*bag.lunch, itinerary.SlotAfternoon))
	}

	var afternoon []itinerary.Item
	afternoon, queue = take(queue, AfternoonCap)
	out = appendInSlot(out, afternoon, itinerary.SlotAfternoon)

	if bag.dinner != nil {
		out = append(out, placeMeal(*bag.dinner, itinerary.SlotEvening))
	}

	return appendInSlot(out, queue, itinerary.SlotEvening)
}

func take(queue []itinerary.Item, n int) (head, rest []itinerary.Item) {
	n = min(n, len(queue))
	return queue[:n], queue[n:]
}

// takeFitting pops up to n items that may occupy slot, in queue order.
// Items that may not (rest in the morning) stay queued in their original
// relative order.
func takeFitting(queue []itinerary.Item, n int, slot itinerary.Slot) (head, rest []itinerary.Item) {
	for _, item := range queue {
		if len(head) < n && itinerary.SlotAllowed(item.Type, slot) {
			head = append(head, item)
			continue
		}
		rest = append(rest, item)
	}
	return head, rest
}

func appendInSlot(out, items []itinerary.Item, slot itinerary.Slot) []itinerary.Item {
	for _, item := range items {
		item.Slot = itinerary.ClampSlot(item.Type, slot)
		out = append(out, item)
	}
	return out
}

func placeMeal(meal itinerary.Item, slot itinerary.Slot) itinerary.Item {
	meal.Slot = slot
	meal.Title = itinerary.MealTitle(meal.Type, meal.Title)
	return meal
}

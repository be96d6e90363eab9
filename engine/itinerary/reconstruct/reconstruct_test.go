package reconstruct

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly/engine/itinerary"
)

func attraction(id string, slot itinerary.Slot, day int) itinerary.Item {
	return itinerary.Item{ID: id, Title: id, Type: itinerary.TypeAttraction, Slot: slot, Day: day}
}

func ids(items []itinerary.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestReconstruct(t *testing.T) {
	t.Run("Should rebuild a chaotic day into the section template", func(t *testing.T) {
		state := &itinerary.State{Items: []itinerary.Item{
			{ID: "dinner", Title: "Roka", Type: itinerary.TypeMealDinner, Slot: itinerary.SlotMorning, Day: 1},
			attraction("a1", itinerary.SlotEvening, 1),
			{ID: "lunch", Title: "Zuma", Type: itinerary.TypeMealLunch, Slot: itinerary.SlotEvening, Day: 1},
			attraction("a2", itinerary.SlotEvening, 1),
			attraction("a3", itinerary.SlotMorning, 1),
			attraction("a4", itinerary.SlotAfternoon, 1),
			attraction("a5", itinerary.SlotMorning, 1),
		}}

		out := Reconstruct(state)

		require.Len(t, out.Items, 7)
		assert.Equal(t, []string{"a1", "a2", "lunch", "a3", "a4", "dinner", "a5"}, ids(out.Items))

		morning, afternoon := 0, 0
		lunchIdx, dinnerIdx := -1, -1
		for i, it := range out.Items {
			switch {
			case it.Type == itinerary.TypeMealLunch:
				lunchIdx = i
			case it.Type == itinerary.TypeMealDinner:
				dinnerIdx = i
			case it.Slot == itinerary.SlotMorning:
				morning++
			case it.Slot == itinerary.SlotAfternoon:
				afternoon++
			}
		}
		assert.Equal(t, 2, morning)
		assert.Equal(t, 2, afternoon)
		assert.GreaterOrEqual(t, lunchIdx, 2)
		assert.GreaterOrEqual(t, dinnerIdx, 5)
		assert.Equal(t, itinerary.SlotEvening, out.Items[6].Slot)
		assert.Equal(t, "Lunch at Zuma", out.Items[lunchIdx].Title)
		assert.Equal(t, itinerary.SlotAfternoon, out.Items[lunchIdx].Slot)
		assert.Equal(t, "Dinner at Roka", out.Items[dinnerIdx].Title)
		assert.Equal(t, itinerary.SlotEvening, out.Items[dinnerIdx].Slot)
	})

	t.Run("Should keep only the first lunch and dinner of a day", func(t *testing.T) {
		out := Reconstruct(&itinerary.State{Items: []itinerary.Item{
			{ID: "l1", Type: itinerary.TypeMealLunch, Day: 1},
			{ID: "l2", Type: itinerary.TypeMealLunch, Day: 1},
			{ID: "d1", Type: itinerary.TypeMealDinner, Day: 1},
			{ID: "d2", Type: itinerary.TypeMealDinner, Day: 1},
		}})
		assert.Equal(t, []string{"l1", "d1"}, ids(out.Items))
	})

	t.Run("Should send all overflow activities to the evening", func(t *testing.T) {
		var items []itinerary.Item
		for i := range 8 {
			items = append(items, attraction(fmt.Sprintf("a%d", i), itinerary.SlotMorning, 1))
		}
		out := Reconstruct(&itinerary.State{Items: items})

		evening := 0
		for _, it := range out.Items {
			if it.Slot == itinerary.SlotEvening {
				evening++
			}
		}
		assert.Equal(t, 4, evening)
	})

	t.Run("Should emit days in ascending order", func(t *testing.T) {
		out := Reconstruct(&itinerary.State{Items: []itinerary.Item{
			attraction("d3", itinerary.SlotMorning, 3),
			attraction("d1", itinerary.SlotMorning, 1),
			attraction("d2", itinerary.SlotMorning, 2),
		}})
		assert.Equal(t, []string{"d1", "d2", "d3"}, ids(out.Items))
	})

	t.Run("Should keep rest out of the morning section", func(t *testing.T) {
		out := Reconstruct(&itinerary.State{Items: []itinerary.Item{
			{ID: "nap", Type: itinerary.TypeRest, Slot: itinerary.SlotMorning, Day: 1},
			attraction("a1", itinerary.SlotEvening, 1),
			{ID: "lunch", Type: itinerary.TypeMealLunch, Day: 1},
			attraction("a2", itinerary.SlotEvening, 1),
			attraction("a3", itinerary.SlotEvening, 1),
		}})

		assert.Equal(t, []string{"a1", "a2", "lunch", "nap", "a3"}, ids(out.Items))
		assert.Equal(t, itinerary.SlotAfternoon, out.Items[3].Slot)
		assert.Equal(t, itinerary.SlotAfternoon, out.Items[4].Slot)
	})

	t.Run("Should pass annotations and metadata through untouched", func(t *testing.T) {
		state := &itinerary.State{
			Items: []itinerary.Item{{
				ID: "a", Type: itinerary.TypeAttraction, Day: 1,
				Sources:     itinerary.Payload(`[{"id":1}]`),
				Explanation: itinerary.Payload(`{"score":0.9}`),
				Coordinates: &itinerary.Coordinates{Lat: 3, Lng: 4},
			}},
			Metadata: &itinerary.Metadata{Source: itinerary.SourceBuilder, Version: 2},
		}

		out := Reconstruct(state)

		assert.Equal(t, `[{"id":1}]`, string(out.Items[0].Sources))
		assert.Equal(t, `{"score":0.9}`, string(out.Items[0].Explanation))
		assert.Equal(t, &itinerary.Coordinates{Lat: 3, Lng: 4}, out.Items[0].Coordinates)
		assert.Equal(t, state.Metadata, out.Metadata)
		assert.NotSame(t, state.Metadata, out.Metadata)
	})

	t.Run("Should not modify the input", func(t *testing.T) {
		state := &itinerary.State{Items: []itinerary.Item{
			{ID: "l", Title: "Zuma", Type: itinerary.TypeMealLunch, Slot: itinerary.SlotMorning, Day: 1},
		}}
		_ = Reconstruct(state)
		assert.Equal(t, "Zuma", state.Items[0].Title)
		assert.Equal(t, itinerary.SlotMorning, state.Items[0].Slot)
	})
}

func randomState(rng *rand.Rand, oneMealEach bool) *itinerary.State {
	slots := []itinerary.Slot{itinerary.SlotMorning, itinerary.SlotAfternoon, itinerary.SlotEvening}
	state := &itinerary.State{}
	numDays := 1 + rng.IntN(3)
	for day := 1; day <= numDays; day++ {
		n := rng.IntN(9)
		for i := 0; i < n; i++ {
			typ := itinerary.TypeAttraction
			if rng.IntN(4) == 0 {
				typ = itinerary.TypeRest
			}
			state.Items = append(state.Items, itinerary.Item{
				ID: fmt.Sprintf("d%d-%d", day, i), Title: "x", Type: typ,
				Slot: slots[rng.IntN(len(slots))], Day: day,
			})
		}
		meals := []itinerary.ItemType{itinerary.TypeMealLunch, itinerary.TypeMealDinner}
		for _, meal := range meals {
			count := rng.IntN(2)
			if !oneMealEach {
				count = rng.IntN(3)
			}
			for j := 0; j < count; j++ {
				state.Items = append(state.Items, itinerary.Item{
					ID: fmt.Sprintf("d%d-%s-%d", day, meal, j), Title: "Visit place", Type: meal,
					Slot: slots[rng.IntN(len(slots))], Day: day,
				})
			}
		}
		rng.Shuffle(len(state.Items), func(i, j int) {
			state.Items[i], state.Items[j] = state.Items[j], state.Items[i]
		})
	}
	return state
}

func TestReconstruct_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	t.Run("Should always produce valid slots, unique meals and capped sections", func(t *testing.T) {
		for range 300 {
			out := Reconstruct(randomState(rng, false))

			type counts struct{ lunch, dinner, morning, afternoon int }
			perDay := map[int]*counts{}
			for _, it := range out.Items {
				require.True(t, itinerary.SlotAllowed(it.Type, it.Slot))
				c := perDay[it.Day]
				if c == nil {
					c = &counts{}
					perDay[it.Day] = c
				}
				switch {
				case it.Type == itinerary.TypeMealLunch:
					c.lunch++
				case it.Type == itinerary.TypeMealDinner:
					c.dinner++
				case it.Slot == itinerary.SlotMorning:
					c.morning++
				case it.Slot == itinerary.SlotAfternoon:
					c.afternoon++
				}
			}
			for _, c := range perDay {
				assert.LessOrEqual(t, c.lunch, 1)
				assert.LessOrEqual(t, c.dinner, 1)
				assert.LessOrEqual(t, c.morning, MorningCap)
				assert.LessOrEqual(t, c.afternoon, AfternoonCap)
			}
		}
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		for range 300 {
			once := Reconstruct(randomState(rng, true))
			twice := Reconstruct(once)
			assert.Equal(t, once, twice)
		}
	})
}

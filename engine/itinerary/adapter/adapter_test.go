package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

func TestInferType(t *testing.T) {
	testCases := []struct {
		block    legacy.Block
		expected itinerary.ItemType
	}{
		{legacy.Block{Type: "meal", MealType: "lunch"}, itinerary.TypeMealLunch},
		{legacy.Block{MealType: "Dinner"}, itinerary.TypeMealDinner},
		{legacy.Block{Type: "other"}, itinerary.TypeRest},
		{legacy.Block{Type: "attraction"}, itinerary.TypeAttraction},
		{legacy.Block{Type: "transfer"}, itinerary.TypeAttraction},
		{legacy.Block{}, itinerary.TypeAttraction},
	}
	for _, tc := range testCases {
		t.Run("Should infer "+tc.expected.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, InferType(&tc.block))
		})
	}
}

func TestInferSlot(t *testing.T) {
	t.Run("Should read morning from slot or time", func(t *testing.T) {
		assert.Equal(t, itinerary.SlotMorning, InferSlot("Morning", ""))
		assert.Equal(t, itinerary.SlotMorning, InferSlot("", "Early MORNING walk"))
	})
	t.Run("Should read evening from slot, time or bare 07:00", func(t *testing.T) {
		assert.Equal(t, itinerary.SlotEvening, InferSlot("EVENING", ""))
		assert.Equal(t, itinerary.SlotEvening, InferSlot("", "evening"))
		assert.Equal(t, itinerary.SlotEvening, InferSlot("", "07:00"))
	})
	t.Run("Should default to afternoon", func(t *testing.T) {
		assert.Equal(t, itinerary.SlotAfternoon, InferSlot("", ""))
		assert.Equal(t, itinerary.SlotAfternoon, InferSlot("", "12:30 PM"))
		assert.Equal(t, itinerary.SlotAfternoon, InferSlot("", "07:00 PM"))
	})
}

func TestParseDuration(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"", 60},
		{"   ", 60},
		{"2 hours", 120},
		{"1 Hour", 60},
		{"1.5 hours", 60},
		{"45 mins", 45},
		{"90 minutes", 90},
		{"a while", 60},
		{"about 2 hours", 60},
		{"30", 60},
		{"153722867280912931 hours", 60},
		{"999999999999999999 hours", 60},
		{"99999999999999999999 mins", 60},
	}
	for _, tc := range testCases {
		t.Run("Should parse "+tc.input, func(t *testing.T) {
			got := ParseDuration(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestToCoreState(t *testing.T) {
	doc := &legacy.Document{
		Title: "Paris",
		Days: []legacy.Day{
			{Day: 1, Blocks: []legacy.Block{
				{ID: "louvre", Time: "Morning", Activity: "Louvre", Duration: "2 hours",
					Sources: itinerary.Payload(`[1]`), Coordinates: &itinerary.Coordinates{Lat: 1, Lng: 2}},
				{Time: "12:30 PM", Activity: "Lunch at Zuma", Type: "meal", MealType: "lunch"},
			}},
			{Day: 2, Blocks: []legacy.Block{
				{Time: "07:00 PM", Slot: "Evening", Activity: "Dinner at Roka", Type: "meal", MealType: "dinner"},
			}},
		},
	}

	t.Run("Should flatten blocks into items", func(t *testing.T) {
		state := ToCoreState(doc)

		require.Len(t, state.Items, 3)
		assert.Nil(t, state.Metadata)

		louvre := state.Items[0]
		assert.Equal(t, "louvre", louvre.ID)
		assert.Equal(t, itinerary.TypeAttraction, louvre.Type)
		assert.Equal(t, itinerary.SlotMorning, louvre.Slot)
		assert.Equal(t, 1, louvre.Day)
		assert.Equal(t, 120, louvre.EstVisitMins)
		assert.Equal(t, 0, louvre.EstTravelMins)
		assert.Equal(t, `[1]`, string(louvre.Sources))

		lunch := state.Items[1]
		assert.Equal(t, itinerary.TypeMealLunch, lunch.Type)
		assert.Equal(t, itinerary.SlotAfternoon, lunch.Slot)
		assert.NotEmpty(t, lunch.ID)
		assert.Equal(t, 60, lunch.EstVisitMins)

		dinner := state.Items[2]
		assert.Equal(t, itinerary.TypeMealDinner, dinner.Type)
		assert.Equal(t, itinerary.SlotEvening, dinner.Slot)
		assert.Equal(t, 2, dinner.Day)
	})

	t.Run("Should derive stable IDs for blocks without one", func(t *testing.T) {
		assert.Equal(t, ToCoreState(doc).Items[1].ID, ToCoreState(doc).Items[1].ID)
		assert.NotEqual(t, ToCoreState(doc).Items[1].ID, ToCoreState(doc).Items[2].ID)
	})

	t.Run("Should not alias annotations of the input", func(t *testing.T) {
		state := ToCoreState(doc)
		state.Items[0].Sources[1] = '2'
		state.Items[0].Coordinates.Lat = 9
		assert.Equal(t, `[1]`, string(doc.Days[0].Blocks[0].Sources))
		assert.InDelta(t, 1.0, doc.Days[0].Blocks[0].Coordinates.Lat, 0)
	})

	t.Run("Should return an empty state for nil documents", func(t *testing.T) {
		state := ToCoreState(nil)
		require.NotNil(t, state)
		assert.Empty(t, state.Items)
	})
}

func TestToLegacyItinerary(t *testing.T) {
	t.Run("Should emit contiguous days including empty ones", func(t *testing.T) {
		state := &itinerary.State{Items: []itinerary.Item{
			{ID: "a", Title: "Louvre", Type: itinerary.TypeAttraction, Slot: itinerary.SlotMorning, Day: 1, EstVisitMins: 120},
			{ID: "b", Title: "Cruise", Type: itinerary.TypeAttraction, Slot: itinerary.SlotEvening, Day: 3, EstVisitMins: 45},
		}}

		doc := ToLegacyItinerary(state, "Paris")

		assert.Equal(t, "Paris", doc.Title)
		require.Len(t, doc.Days, 3)
		for i, day := range doc.Days {
			assert.Equal(t, i+1, day.Day)
		}
		assert.NotNil(t, doc.Days[1].Blocks)
		assert.Empty(t, doc.Days[1].Blocks)
		assert.Equal(t, "120 mins", doc.Days[0].Blocks[0].Duration)
		assert.Equal(t, "Evening", doc.Days[2].Blocks[0].Time)
	})

	t.Run("Should preserve input order within a day", func(t *testing.T) {
		state := &itinerary.State{Items: []itinerary.Item{
			{ID: "late", Title: "Late", Type: itinerary.TypeAttraction, Slot: itinerary.SlotEvening, Day: 1},
			{ID: "early", Title: "Early", Type: itinerary.TypeAttraction, Slot: itinerary.SlotMorning, Day: 1},
		}}

		doc := ToLegacyItinerary(state, "")

		assert.Equal(t, "late", doc.Days[0].Blocks[0].ID)
		assert.Equal(t, "early", doc.Days[0].Blocks[1].ID)
	})

	t.Run("Should pin meal times and mark non-attractions fixed", func(t *testing.T) {
		state := &itinerary.State{Items: []itinerary.Item{
			{ID: "l", Title: "Lunch at Zuma", Type: itinerary.TypeMealLunch, Slot: itinerary.SlotMorning, Day: 1},
			{ID: "d", Title: "Dinner at Roka", Type: itinerary.TypeMealDinner, Slot: itinerary.SlotAfternoon, Day: 1},
			{ID: "r", Title: "Nap", Type: itinerary.TypeRest, Slot: itinerary.SlotAfternoon, Day: 1},
			{ID: "m", Title: "Museum", Type: itinerary.TypeAttraction, Slot: itinerary.SlotAfternoon, Day: 1},
		}}

		blocks := ToLegacyItinerary(state, "").Days[0].Blocks

		assert.Equal(t, legacy.LunchTime, blocks[0].Time)
		assert.Equal(t, legacy.DinnerTime, blocks[1].Time)
		assert.Equal(t, "Afternoon", blocks[2].Time)
		assert.Equal(t, "meal", blocks[0].Type)
		assert.Equal(t, "lunch", blocks[0].MealType)
		assert.Equal(t, "dinner", blocks[1].MealType)
		assert.Equal(t, "other", blocks[2].Type)
		assert.True(t, blocks[0].Fixed)
		assert.True(t, blocks[1].Fixed)
		assert.True(t, blocks[2].Fixed)
		assert.False(t, blocks[3].Fixed)
	})

	t.Run("Should drop items beyond the trip limit", func(t *testing.T) {
		state := &itinerary.State{Items: []itinerary.Item{
			{ID: "a", Title: "Louvre", Type: itinerary.TypeAttraction, Day: 2},
			{ID: "far", Title: "Far", Type: itinerary.TypeAttraction, Day: 1_000_000_000},
		}}

		doc := ToLegacyItinerary(state, "")

		require.Len(t, doc.Days, 2)
		assert.Equal(t, 1, doc.BlockCount())
	})

	t.Run("Should return an empty document for empty states", func(t *testing.T) {
		doc := ToLegacyItinerary(&itinerary.State{}, "Empty")
		assert.Empty(t, doc.Days)
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("Should preserve item count and day membership", func(t *testing.T) {
		doc := &legacy.Document{
			Title: "Trip",
			Days: []legacy.Day{
				{Day: 1, Blocks: []legacy.Block{
					{Activity: "Louvre", Time: "Morning"},
					{Activity: "Lunch at Zuma", Type: "meal", MealType: "lunch"},
				}},
				{Day: 2, Blocks: []legacy.Block{
					{Activity: "Nap", Type: "other", Time: "Evening"},
				}},
				{Day: 3, Blocks: []legacy.Block{
					{Activity: "Dinner at Roka", Type: "meal", MealType: "dinner", Time: "07:00"},
				}},
			},
		}

		out := ToLegacyItinerary(ToCoreState(doc), doc.Title)

		require.Len(t, out.Days, len(doc.Days))
		assert.Equal(t, doc.BlockCount(), out.BlockCount())
		for i := range doc.Days {
			require.Len(t, out.Days[i].Blocks, len(doc.Days[i].Blocks))
			for j := range doc.Days[i].Blocks {
				assert.Equal(t, doc.Days[i].Blocks[j].Activity, out.Days[i].Blocks[j].Activity)
			}
		}
	})

	t.Run("Should be stable after the first pass", func(t *testing.T) {
		doc := &legacy.Document{Days: []legacy.Day{{Day: 1, Blocks: []legacy.Block{
			{Activity: "Dinner at Roka", Type: "meal", MealType: "dinner", Time: "07:00"},
			{Activity: "Louvre", Time: "Morning", Duration: "2 hours"},
		}}}}

		once := ToLegacyItinerary(ToCoreState(doc), "T")
		twice := ToLegacyItinerary(ToCoreState(once), "T")

		assert.True(t, once.Equal(twice))
	})
}

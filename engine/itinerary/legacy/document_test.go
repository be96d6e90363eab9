package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/wanderly/engine/itinerary"
)

func fixture() *Document {
	return &Document{
		Title: "Trip",
		Days: []Day{
			{Day: 1, Blocks: []Block{
				{Activity: "Louvre", Description: "Art museum", Sources: itinerary.Payload(`["a"]`)},
				{Activity: "Lunch at Zuma", Type: BlockMeal, MealType: "Lunch"},
			}},
			{Day: 2, Blocks: []Block{
				{Activity: "Airport", Type: "Transfer", Coordinates: &itinerary.Coordinates{Lat: 1}},
			}},
		},
	}
}

func TestDocument_Clone(t *testing.T) {
	t.Run("Should produce an independent copy", func(t *testing.T) {
		src := fixture()
		out := src.Clone()
		require.True(t, src.Equal(out))

		out.Days[0].Blocks[0].Activity = "Orsay"
		out.Days[0].Blocks[0].Sources[2] = 'b'
		out.Days[1].Blocks[0].Coordinates.Lat = 5
		out.Days = append(out.Days, Day{Day: 3})

		assert.Equal(t, "Louvre", src.Days[0].Blocks[0].Activity)
		assert.Equal(t, `["a"]`, string(src.Days[0].Blocks[0].Sources))
		assert.InDelta(t, 1.0, src.Days[1].Blocks[0].Coordinates.Lat, 0)
		assert.Len(t, src.Days, 2)
		assert.False(t, src.Equal(out))
	})

	t.Run("Should clone nil into an empty document", func(t *testing.T) {
		var doc *Document
		out := doc.Clone()
		require.NotNil(t, out)
		assert.Empty(t, out.Days)
	})
}

func TestBlock_Classification(t *testing.T) {
	doc := fixture()
	t.Run("Should detect meals case-insensitively", func(t *testing.T) {
		assert.Equal(t, MealLunch, doc.Days[0].Blocks[1].MealKind())
		assert.False(t, doc.Days[0].Blocks[0].IsMeal())
	})
	t.Run("Should detect transfers case-insensitively", func(t *testing.T) {
		assert.True(t, doc.Days[1].Blocks[0].IsTransfer())
	})
	t.Run("Should match activity or description substrings", func(t *testing.T) {
		assert.True(t, doc.Days[0].Blocks[0].Matches("louv"))
		assert.True(t, doc.Days[0].Blocks[0].Matches("ART"))
		assert.False(t, doc.Days[0].Blocks[0].Matches("zuma"))
	})
}

func TestDocument_DayIndex(t *testing.T) {
	doc := fixture()
	t.Run("Should find days by number", func(t *testing.T) {
		assert.Equal(t, 1, doc.DayIndex(2))
	})
	t.Run("Should return -1 for unknown days", func(t *testing.T) {
		assert.Equal(t, -1, doc.DayIndex(0))
		assert.Equal(t, -1, doc.DayIndex(9))
	})
	t.Run("Should count blocks", func(t *testing.T) {
		assert.Equal(t, 3, doc.BlockCount())
	})
}

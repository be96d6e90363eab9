package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "title": "Paris",
  "days": [
    {"day": 1, "blocks": [
      {"time": "Morning", "activity": "Louvre", "duration": "2 hours", "type": "attraction",
       "sources": [{"url": "https://example.com"}], "coordinates": {"lat": 48.86, "lng": 2.33}},
      {"time": "12:30 PM", "activity": "Lunch at Zuma", "type": "meal", "mealType": "lunch", "fixed": "true"}
    ]},
    {"day": "2", "blocks": [
      {"time": "Evening", "title": "Seine cruise", "duration": 45}
    ]},
    {"blocks": []}
  ]
}`

func TestParse(t *testing.T) {
	t.Run("Should decode a loosely typed document", func(t *testing.T) {
		doc, err := Parse([]byte(sampleJSON))
		require.NoError(t, err)

		assert.Equal(t, "Paris", doc.Title)
		require.Len(t, doc.Days, 3)
		assert.Equal(t, 1, doc.Days[0].Day)
		assert.Equal(t, 2, doc.Days[1].Day)
		assert.Equal(t, 3, doc.Days[2].Day, "missing day numbers fall back to position")
		assert.NotNil(t, doc.Days[2].Blocks)

		louvre := doc.Days[0].Blocks[0]
		assert.Equal(t, "2 hours", louvre.Duration)
		assert.JSONEq(t, `[{"url": "https://example.com"}]`, string(louvre.Sources))
		require.NotNil(t, louvre.Coordinates)
		assert.InDelta(t, 48.86, louvre.Coordinates.Lat, 1e-9)

		lunch := doc.Days[0].Blocks[1]
		assert.True(t, lunch.Fixed)
		assert.True(t, lunch.IsMeal())
		assert.Equal(t, MealLunch, lunch.MealKind())

		cruise := doc.Days[1].Blocks[0]
		assert.Equal(t, "Seine cruise", cruise.Activity)
		assert.Equal(t, "45 mins", cruise.Duration)
		assert.Nil(t, cruise.Sources)
	})

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{"title": `))
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("Should reject non-object documents", func(t *testing.T) {
		_, err := Parse([]byte(`[1,2,3]`))
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("Should reject day numbers beyond the trip limit", func(t *testing.T) {
		_, err := Parse([]byte(`{"days":[{"day":1000000000,"blocks":[{"activity":"Louvre"}]}]}`))
		assert.ErrorIs(t, err, ErrInvalidDocument)

		doc, err := Parse([]byte(`{"days":[{"day":366,"blocks":[]}]}`))
		require.NoError(t, err)
		assert.Equal(t, 366, doc.Days[0].Day)
	})
}

func TestParseYAML(t *testing.T) {
	t.Run("Should decode YAML documents", func(t *testing.T) {
		input := []byte(`
title: Rome
days:
  - day: 1
    blocks:
      - time: Morning
        activity: Colosseum
        duration: 90 mins
`)
		doc, err := ParseYAML(input)
		require.NoError(t, err)
		require.Len(t, doc.Days, 1)
		assert.Equal(t, "Colosseum", doc.Days[0].Blocks[0].Activity)
		assert.Equal(t, "90 mins", doc.Days[0].Blocks[0].Duration)
	})
}

func TestMarshal(t *testing.T) {
	t.Run("Should round trip through JSON", func(t *testing.T) {
		doc, err := Parse([]byte(sampleJSON))
		require.NoError(t, err)

		data, err := Marshal(doc)
		require.NoError(t, err)
		again, err := Parse(data)
		require.NoError(t, err)

		assert.True(t, doc.Equal(again))
	})

	t.Run("Should round trip through YAML", func(t *testing.T) {
		doc, err := Parse([]byte(sampleJSON))
		require.NoError(t, err)

		data, err := MarshalYAML(doc)
		require.NoError(t, err)
		again, err := ParseYAML(data)
		require.NoError(t, err)

		assert.True(t, doc.Equal(again))
	})
}

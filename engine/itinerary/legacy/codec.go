package legacy

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/wanderly/wanderly/engine/itinerary"
)

// ErrInvalidDocument is returned when input bytes are not a JSON object.
var ErrInvalidDocument = errors.New("invalid itinerary document")

// Parse decodes a legacy document from JSON.
//
// Decoding is tolerant of the loose shapes drafts arrive in: numeric or
// string day numbers, numeric durations (minutes), string booleans, and
// missing or non-positive day numbers (the day's position is used instead).
// Day numbers above itinerary.MaxTripDays are rejected.
// Blocks that name their activity under "title" or "name" are accepted.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidDocument)
	}
	doc := &Document{
		Title: root.Get("title").String(),
		Days:  []Day{},
	}
	for i, rawDay := range root.Get("days").Array() {
		day := Day{Day: int(rawDay.Get("day").Int()), Blocks: []Block{}}
		if day.Day <= 0 {
			day.Day = i + 1
		}
		if day.Day > itinerary.MaxTripDays {
			return nil, fmt.Errorf("%w: day %d exceeds %d", ErrInvalidDocument, day.Day, itinerary.MaxTripDays)
		}
		for _, rawBlock := range rawDay.Get("blocks").Array() {
			if !rawBlock.IsObject() {
				continue
			}
			day.Blocks = append(day.Blocks, parseBlock(rawBlock))
		}
		doc.Days = append(doc.Days, day)
	}
	return doc, nil
}

// ParseYAML decodes a legacy document written as YAML.
func ParseYAML(data []byte) (*Document, error) {
	raw, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return Parse(raw)
}

func parseBlock(b gjson.Result) Block {
	block := Block{
		ID:          b.Get("id").String(),
		Time:        b.Get("time").String(),
		Activity:    firstString(b, "activity", "title", "name"),
		Description: b.Get("description").String(),
		Type:        b.Get("type").String(),
		MealType:    b.Get("mealType").String(),
		Slot:        b.Get("slot").String(),
		Fixed:       b.Get("fixed").Bool(),
		Cuisine:     b.Get("cuisine").String(),
		Location:    b.Get("location").String(),
		Category:    b.Get("category").String(),
		Sources:     payload(b.Get("sources")),
		Explanation: payload(b.Get("explanation")),
	}
	duration := b.Get("duration")
	switch duration.Type {
	case gjson.Number:
		block.Duration = fmt.Sprintf("%d mins", duration.Int())
	case gjson.String:
		block.Duration = duration.String()
	}
	if coords := b.Get("coordinates"); coords.IsObject() {
		block.Coordinates = &itinerary.Coordinates{
			Lat: coords.Get("lat").Float(),
			Lng: coords.Get("lng").Float(),
		}
	}
	return block
}

func firstString(b gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := b.Get(key); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func payload(r gjson.Result) itinerary.Payload {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return itinerary.Payload(r.Raw)
}

// Marshal encodes the document as JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// MarshalYAML encodes the document as YAML.
func MarshalYAML(doc *Document) ([]byte, error) {
	data, err := Marshal(doc)
	if err != nil {
		return nil, err
	}
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to YAML: %w", err)
	}
	return out, nil
}

package itinerary

import (
	"encoding/json"
	"slices"
	"strings"
)

// SchemaVersion is the canonical schema version stamped by the builder
// pipeline. Bump it whenever the canonical shape changes incompatibly.
const SchemaVersion = 1

// SourceBuilder is the only provenance the gate accepts.
const SourceBuilder = "BUILDER"

// MaxTripDays bounds day numbers. Legacy documents are day-indexed, so the
// highest day decides how many days a document holds.
const MaxTripDays = 366

// -----------------------------------------------------------------------------
// Item Type
// -----------------------------------------------------------------------------

type ItemType string

const (
	TypeAttraction ItemType = "ATTRACTION"
	TypeMealLunch  ItemType = "MEAL_LUNCH"
	TypeMealDinner ItemType = "MEAL_DINNER"
	TypeRest       ItemType = "REST"
)

func (t ItemType) String() string {
	return string(t)
}

// IsMeal reports whether t is a lunch or dinner.
func (t ItemType) IsMeal() bool {
	return t == TypeMealLunch || t == TypeMealDinner
}

// IsFixed reports whether items of this type are pinned in the legacy view.
func (t ItemType) IsFixed() bool {
	return t != TypeAttraction
}

// -----------------------------------------------------------------------------
// Slot
// -----------------------------------------------------------------------------

type Slot string

const (
	SlotMorning   Slot = "MORNING"
	SlotAfternoon Slot = "AFTERNOON"
	SlotEvening   Slot = "EVENING"
)

func (s Slot) String() string {
	return string(s)
}

// ParseSlot accepts a slot name in any casing.
func ParseSlot(s string) (Slot, bool) {
	switch slot := Slot(strings.ToUpper(strings.TrimSpace(s))); slot {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return slot, true
	default:
		return "", false
	}
}

// Weight orders slots within a day. Unknown slots sort last.
func (s Slot) Weight() int {
	switch s {
	case SlotMorning:
		return 0
	case SlotAfternoon:
		return 1
	case SlotEvening:
		return 2
	default:
		return 3
	}
}

var allowedSlots = map[ItemType][]Slot{
	TypeAttraction: {SlotMorning, SlotAfternoon, SlotEvening},
	TypeMealLunch:  {SlotAfternoon},
	TypeMealDinner: {SlotEvening},
	TypeRest:       {SlotAfternoon, SlotEvening},
}

// AllowedSlots returns the slots an item of type t may occupy, in preference
// order. Unknown types are treated as attractions.
func AllowedSlots(t ItemType) []Slot {
	slots, ok := allowedSlots[t]
	if !ok {
		slots = allowedSlots[TypeAttraction]
	}
	return slices.Clone(slots)
}

// SlotAllowed reports whether slot s is valid for type t.
func SlotAllowed(t ItemType, s Slot) bool {
	return slices.Contains(AllowedSlots(t), s)
}

// ClampSlot returns s when it is valid for t, otherwise the first allowed slot.
func ClampSlot(t ItemType, s Slot) Slot {
	if SlotAllowed(t, s) {
		return s
	}
	return AllowedSlots(t)[0]
}

// -----------------------------------------------------------------------------
// Opaque annotations
// -----------------------------------------------------------------------------

// Payload holds an annotation the engine stores and forwards but never reads.
// It is raw JSON so it survives any persistence format unchanged.
type Payload = json.RawMessage

// ClonePayload returns an independent copy of p.
func ClonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// -----------------------------------------------------------------------------
// Item & State
// -----------------------------------------------------------------------------

// Item is one scheduled unit of a trip.
type Item struct {
	ID            string       `json:"id"            jsonschema:"required"`
	Title         string       `json:"title"`
	Type          ItemType     `json:"type"          jsonschema:"required"`
	Slot          Slot         `json:"slot"          jsonschema:"required"`
	Day           int          `json:"day"           jsonschema:"required,minimum=1,maximum=366"`
	EstVisitMins  int          `json:"estVisitMins"  jsonschema:"minimum=0"`
	EstTravelMins int          `json:"estTravelMins" jsonschema:"minimum=0"`
	Cuisine       string       `json:"cuisine,omitempty"`
	Description   string       `json:"description,omitempty"`
	Location      string       `json:"location,omitempty"`
	Category      string       `json:"category,omitempty"`
	Sources       Payload      `json:"sources,omitempty"`
	Explanation   Payload      `json:"explanation,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
}

// Clone returns a copy of the item that shares no memory with it.
func (i Item) Clone() Item {
	out := i
	out.Sources = ClonePayload(i.Sources)
	out.Explanation = ClonePayload(i.Explanation)
	if i.Coordinates != nil {
		coords := *i.Coordinates
		out.Coordinates = &coords
	}
	return out
}

// Metadata records where a canonical state came from.
type Metadata struct {
	Source  string `json:"source"  jsonschema:"required"`
	Version int    `json:"version" jsonschema:"required"`
}

// State is a whole trip as a flat, ordered collection of items.
type State struct {
	Items    []Item    `json:"items"              jsonschema:"required"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return &State{Items: []Item{}}
	}
	out := &State{Items: make([]Item, 0, len(s.Items))}
	for _, item := range s.Items {
		out.Items = append(out.Items, item.Clone())
	}
	if s.Metadata != nil {
		md := *s.Metadata
		out.Metadata = &md
	}
	return out
}

// WithMetadata returns a copy of the state stamped with md.
func (s *State) WithMetadata(md Metadata) *State {
	out := s.Clone()
	out.Metadata = &md
	return out
}

// WithoutMetadata returns a copy of the state with provenance stripped.
func (s *State) WithoutMetadata() *State {
	out := s.Clone()
	out.Metadata = nil
	return out
}


// ItemsForDay returns copies of the items on day, in state order.
func (s *State) ItemsForDay(day int) []Item {
	if s == nil {
		return nil
	}
	var out []Item
	for _, item := range s.Items {
		if item.Day == day {
			out = append(out, item.Clone())
		}
	}
	return out
}

package legacy

import (
	"reflect"
	"strings"

	"github.com/wanderly/wanderly/engine/core"
	"github.com/wanderly/wanderly/engine/itinerary"
)

// Block type tags used by the persisted format.
const (
	BlockAttraction = "attraction"
	BlockMeal       = "meal"
	BlockOther      = "other"
	BlockTransfer   = "transfer"
)

// Meal type tags used by the persisted format.
const (
	MealLunch  = "lunch"
	MealDinner = "dinner"
)

// Display times pinned on meal blocks.
const (
	LunchTime  = "12:30 PM"
	DinnerTime = "07:00 PM"
)

// Document is the persisted, rendered form of an itinerary.
type Document struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"  jsonschema:"required"`
}

// Day is one calendar day of a document.
type Day struct {
	Day    int     `json:"day"    jsonschema:"required,minimum=1,maximum=366"`
	Blocks []Block `json:"blocks" jsonschema:"required"`
}

// Block is one scheduled entry in the persisted format. Type, MealType and
// Slot are free strings here; the adapter is the only place they are turned
// into canonical enums.
type Block struct {
	ID          string                 `json:"id,omitempty"`
	Time        string                 `json:"time"`
	Activity    string                 `json:"activity" jsonschema:"required"`
	Duration    string                 `json:"duration,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type,omitempty"`
	MealType    string                 `json:"mealType,omitempty"`
	Slot        string                 `json:"slot,omitempty"`
	Fixed       bool                   `json:"fixed"`
	Cuisine     string                 `json:"cuisine,omitempty"`
	Location    string                 `json:"location,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Sources     itinerary.Payload      `json:"sources,omitempty"`
	Explanation itinerary.Payload      `json:"explanation,omitempty"`
	Coordinates *itinerary.Coordinates `json:"coordinates,omitempty"`
}

// MealKind returns "lunch", "dinner" or "" for the block.
func (b *Block) MealKind() string {
	switch strings.ToLower(strings.TrimSpace(b.MealType)) {
	case MealLunch:
		return MealLunch
	case MealDinner:
		return MealDinner
	default:
		return ""
	}
}

// IsMeal reports whether the block carries a meal tag of any kind, including
// a bare "meal" type whose mealType was lost.
func (b *Block) IsMeal() bool {
	return b.MealKind() != "" || strings.EqualFold(strings.TrimSpace(b.Type), BlockMeal)
}

func (b *Block) IsTransfer() bool {
	return strings.EqualFold(strings.TrimSpace(b.Type), BlockTransfer)
}

func (b *Block) IsRest() bool {
	return strings.EqualFold(strings.TrimSpace(b.Type), BlockOther)
}

// Matches reports whether the lower-cased activity or description contains
// the lower-cased target.
func (b *Block) Matches(target string) bool {
	needle := strings.ToLower(target)
	return strings.Contains(strings.ToLower(b.Activity), needle) ||
		strings.Contains(strings.ToLower(b.Description), needle)
}

// DayIndex returns the index in Days of the day numbered n, or -1.
func (d *Document) DayIndex(n int) int {
	if d == nil {
		return -1
	}
	for i := range d.Days {
		if d.Days[i].Day == n {
			return i
		}
	}
	return -1
}

// BlockCount returns the total number of blocks across all days.
func (d *Document) BlockCount() int {
	if d == nil {
		return 0
	}
	total := 0
	for i := range d.Days {
		total += len(d.Days[i].Blocks)
	}
	return total
}

// Clone returns a deep copy of the document. A nil document clones to an
// empty one.
func (d *Document) Clone() *Document {
	if d == nil {
		return &Document{Days: []Day{}}
	}
	out, err := core.DeepCopy(d)
	if err != nil || out == nil {
		return d.cloneByHand()
	}
	return out
}

func (d *Document) cloneByHand() *Document {
	out := &Document{Title: d.Title, Days: make([]Day, 0, len(d.Days))}
	for _, day := range d.Days {
		blocks := make([]Block, 0, len(day.Blocks))
		for _, b := range day.Blocks {
			b.Sources = itinerary.ClonePayload(b.Sources)
			b.Explanation = itinerary.ClonePayload(b.Explanation)
			if b.Coordinates != nil {
				coords := *b.Coordinates
				b.Coordinates = &coords
			}
			blocks = append(blocks, b)
		}
		out.Days = append(out.Days, Day{Day: day.Day, Blocks: blocks})
	}
	return out
}

// Equal reports whether two documents have the same persisted form.
// Embedded payloads are compared by their canonical JSON, not their bytes.
func (d *Document) Equal(other *Document) bool {
	a, errA := core.Fingerprint(d)
	b, errB := core.Fingerprint(other)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(d, other)
	}
	return a == b
}

// Fingerprint returns a stable digest of the document's persisted form.
func (d *Document) Fingerprint() (string, error) {
	return core.Fingerprint(d)
}

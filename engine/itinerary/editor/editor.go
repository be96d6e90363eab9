package editor

import (
	"slices"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/adapter"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

// Filler block added by PackDay.
const (
	FillerActivity    = "Explore Local Markets"
	FillerDescription = "Browse the stalls and street food around the neighbourhood"
	FillerDuration    = "90 mins"
)

// Apply runs one edit on a copy of doc and returns the repaired, normalized
// result. It never fails: an unknown kind, a missing day or an unmatched item
// leaves the document as Normalize would.
//
// Meals that lost their tag are repaired before the edit as well, so they
// stay protected from RelaxDay and RemoveItem.
func Apply(doc *legacy.Document, op Operation) *legacy.Document {
	out := doc.Clone()
	repair(out)
	switch op.Kind {
	case RelaxDay:
		relaxDay(out, op.SourceDay)
	case PackDay:
		packDay(out, op.SourceDay)
	case MoveItemWithinDay:
		moveItem(out, op.SourceDay, op.SourceDay, op.ItemToMove, op.slotOrDefault())
	case MoveItemBetweenDays:
		moveItem(out, op.SourceDay, op.TargetDay, op.ItemToMove, op.slotOrDefault())
	case SwapDays:
		swapDays(out, op.SourceDay, op.TargetDay)
	case RemoveItem:
		removeItem(out, op.SourceDay, op.ItemToMove)
	}
	repair(out)
	normalize(out)
	return out
}

// Normalize returns the repaired, normalized copy of doc that Apply would
// produce for an edit that changed nothing.
func Normalize(doc *legacy.Document) *legacy.Document {
	out := doc.Clone()
	repair(out)
	normalize(out)
	return out
}

func dayBlocks(doc *legacy.Document, day int) *[]legacy.Block {
	idx := doc.DayIndex(day)
	if idx < 0 {
		return nil
	}
	return &doc.Days[idx].Blocks
}

// findBlock returns the index of the first block matching target, or -1.
// An empty target matches nothing.
func findBlock(blocks []legacy.Block, target string) int {
	if target == "" {
		return -1
	}
	return slices.IndexFunc(blocks, func(b legacy.Block) bool {
		return b.Matches(target)
	})
}

func relaxDay(doc *legacy.Document, day int) {
	blocks := dayBlocks(doc, day)
	if blocks == nil {
		return
	}
	for i := len(*blocks) - 1; i >= 0; i-- {
		b := &(*blocks)[i]
		if b.IsMeal() || b.IsTransfer() {
			continue
		}
		*blocks = slices.Delete(*blocks, i, i+1)
		return
	}
}

func packDay(doc *legacy.Document, day int) {
	blocks := dayBlocks(doc, day)
	if blocks == nil {
		return
	}
	*blocks = append(*blocks, legacy.Block{
		Time:        adapter.SlotLabel(itinerary.SlotAfternoon),
		Activity:    FillerActivity,
		Duration:    FillerDuration,
		Description: FillerDescription,
		Type:        legacy.BlockAttraction,
		Slot:        adapter.SlotLabel(itinerary.SlotAfternoon),
	})
}

func moveItem(doc *legacy.Document, fromDay, toDay int, target string, slot itinerary.Slot) {
	src := dayBlocks(doc, fromDay)
	dst := dayBlocks(doc, toDay)
	if src == nil || dst == nil {
		return
	}
	idx := findBlock(*src, target)
	if idx < 0 {
		return
	}
	block := (*src)[idx]
	*src = slices.Delete(*src, idx, idx+1)

	block.Slot = adapter.SlotLabel(slot)
	block.Time = adapter.DisplayTime(adapter.InferType(&block), slot)
	*dst = slices.Insert(*dst, anchorPosition(*dst, slot), block)
}

// anchorPosition finds where a block for slot goes relative to the day's
// lunch and dinner. Morning lands before lunch (or first), evening last, and
// afternoon after lunch and before dinner.
func anchorPosition(blocks []legacy.Block, slot itinerary.Slot) int {
	lunch := slices.IndexFunc(blocks, func(b legacy.Block) bool { return b.MealKind() == legacy.MealLunch })
	dinner := slices.IndexFunc(blocks, func(b legacy.Block) bool { return b.MealKind() == legacy.MealDinner })
	switch slot {
	case itinerary.SlotMorning:
		return max(lunch, 0)
	case itinerary.SlotEvening:
		return len(blocks)
	default:
		switch {
		case dinner >= 0 && dinner > lunch:
			return dinner
		case lunch >= 0:
			return lunch + 1
		default:
			return len(blocks)
		}
	}
}

func swapDays(doc *legacy.Document, a, b int) {
	i, j := doc.DayIndex(a), doc.DayIndex(b)
	if i < 0 || j < 0 || i == j {
		return
	}
	doc.Days[i].Blocks, doc.Days[j].Blocks = doc.Days[j].Blocks, doc.Days[i].Blocks
}

func removeItem(doc *legacy.Document, day int, target string) {
	blocks := dayBlocks(doc, day)
	if blocks == nil {
		return
	}
	idx := findBlock(*blocks, target)
	if idx < 0 || (*blocks)[idx].IsMeal() {
		return
	}
	*blocks = slices.Delete(*blocks, idx, idx+1)
}

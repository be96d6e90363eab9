package editor

import (
	"strings"

	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/adapter"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
)

// repair re-tags blocks that read as meals but lost their meal tag. Blocks
// explicitly typed as something else ("Dinner cruise" as an attraction) are
// left alone.
func repair(doc *legacy.Document) {
	for d := range doc.Days {
		for i := range doc.Days[d].Blocks {
			b := &doc.Days[d].Blocks[i]
			if b.MealKind() != "" {
				continue
			}
			if t := strings.TrimSpace(b.Type); t != "" && !strings.EqualFold(t, legacy.BlockMeal) {
				continue
			}
			activity := strings.ToLower(b.Activity)
			switch {
			case strings.Contains(activity, legacy.MealLunch):
				b.Type, b.MealType = legacy.BlockMeal, legacy.MealLunch
			case strings.Contains(activity, legacy.MealDinner):
				b.Type, b.MealType = legacy.BlockMeal, legacy.MealDinner
			}
		}
	}
}

// normalize is the legacy-shape counterpart of the canonical normalizer. It
// fixes slots that are invalid for the block's type, retitles meals and keeps
// only the first lunch and dinner of each day. Block order is preserved.
func normalize(doc *legacy.Document) {
	for d := range doc.Days {
		day := &doc.Days[d]
		kept := make([]legacy.Block, 0, len(day.Blocks))
		var seenLunch, seenDinner bool
		for _, b := range day.Blocks {
			switch b.MealKind() {
			case legacy.MealLunch:
				if seenLunch {
					continue
				}
				seenLunch = true
			case legacy.MealDinner:
				if seenDinner {
					continue
				}
				seenDinner = true
			}
			fixBlock(&b)
			kept = append(kept, b)
		}
		day.Blocks = kept
	}
}

func fixBlock(b *legacy.Block) {
	typ := adapter.InferType(b)
	slot := adapter.InferSlot(b.Slot, b.Time)
	if fixed := itinerary.ClampSlot(typ, slot); fixed != slot {
		b.Slot = adapter.SlotLabel(fixed)
		b.Time = adapter.DisplayTime(typ, fixed)
	}
	if typ.IsMeal() {
		b.Activity = itinerary.MealTitle(typ, b.Activity)
		b.Fixed = true
	}
}

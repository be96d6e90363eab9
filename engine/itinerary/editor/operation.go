package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wanderly/wanderly/engine/itinerary"
)

type OperationKind string

const (
	RelaxDay            OperationKind = "RELAX_DAY"
	PackDay             OperationKind = "PACK_DAY"
	MoveItemWithinDay   OperationKind = "MOVE_ITEM_WITHIN_DAY"
	MoveItemBetweenDays OperationKind = "MOVE_ITEM_BETWEEN_DAYS"
	SwapDays            OperationKind = "SWAP_DAYS"
	RemoveItem          OperationKind = "REMOVE_ITEM"
)

var operationKinds = []OperationKind{
	RelaxDay, PackDay, MoveItemWithinDay, MoveItemBetweenDays, SwapDays, RemoveItem,
}

// Kinds returns every supported operation kind.
func Kinds() []OperationKind {
	return slices.Clone(operationKinds)
}

func (k OperationKind) String() string {
	return string(k)
}

// ParseOperationKind accepts a kind in any casing, with dashes or underscores.
func ParseOperationKind(s string) (OperationKind, error) {
	norm := OperationKind(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	for _, kind := range operationKinds {
		if kind == norm {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown edit operation %q", s)
}

// Operation is one named edit. Fields a kind does not use are ignored.
type Operation struct {
	Kind       OperationKind  `json:"kind" yaml:"kind" validate:"required,oneof=RELAX_DAY PACK_DAY MOVE_ITEM_WITHIN_DAY MOVE_ITEM_BETWEEN_DAYS SWAP_DAYS REMOVE_ITEM" jsonschema:"required"`
	SourceDay  int            `json:"sourceDay" yaml:"sourceDay" validate:"min=1" jsonschema:"required,minimum=1"`
	TargetDay  int            `json:"targetDay,omitempty" yaml:"targetDay,omitempty" validate:"min=0" jsonschema:"minimum=0"`
	ItemToMove string         `json:"itemToMove,omitempty" yaml:"itemToMove,omitempty"`
	TargetSlot itinerary.Slot `json:"targetSlot,omitempty" yaml:"targetSlot,omitempty" validate:"omitempty,oneof=MORNING AFTERNOON EVENING"`
}

var (
	ErrMissingTargetDay = errors.New("operation requires a target day")
	ErrMissingItem      = errors.New("operation requires an item to move")
)

var validate = validator.New()

// Validate checks an operation built from untrusted input. Apply never calls
// it; an invalid operation there is simply a no-op.
func (op *Operation) Validate() error {
	if err := validate.Struct(op); err != nil {
		return fmt.Errorf("invalid edit operation: %w", err)
	}
	switch op.Kind {
	case MoveItemBetweenDays, SwapDays:
		if op.TargetDay < 1 {
			return fmt.Errorf("%s: %w", op.Kind, ErrMissingTargetDay)
		}
	}
	switch op.Kind {
	case MoveItemWithinDay, MoveItemBetweenDays, RemoveItem:
		if strings.TrimSpace(op.ItemToMove) == "" {
			return fmt.Errorf("%s: %w", op.Kind, ErrMissingItem)
		}
	}
	return nil
}

// slotOrDefault is the slot a move lands in when none was requested.
func (op *Operation) slotOrDefault() itinerary.Slot {
	if slot, ok := itinerary.ParseSlot(string(op.TargetSlot)); ok {
		return slot
	}
	return itinerary.SlotAfternoon
}

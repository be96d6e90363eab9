package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/editor"
	"github.com/wanderly/wanderly/engine/schema"
	"github.com/wanderly/wanderly/pkg/config"
	"github.com/wanderly/wanderly/pkg/logger"
)

// operationFlags holds the flags that describe one edit operation.
type operationFlags struct {
	kind      string
	day       int
	targetDay int
	item      string
	slot      string
	file      string
}

func (f *operationFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.kind, "op", "", "Operation kind (relax-day, pack-day, move-item-within-day, move-item-between-days, swap-days, remove-item)")
	flags.IntVar(&f.day, "day", 0, "Day the operation applies to")
	flags.IntVar(&f.targetDay, "target-day", 0, "Destination day for moves and swaps")
	flags.StringVar(&f.item, "item", "", "Activity to move or remove (fuzzy match)")
	flags.StringVar(&f.slot, "slot", "", "Target slot for moves (morning, afternoon, evening)")
	flags.StringVar(&f.file, "op-file", "", "Read the operation from a JSON or YAML file instead")
}

// operation builds a validated operation from an op file or from flags.
func (f *operationFlags) operation(cmd *cobra.Command) (editor.Operation, error) {
	if f.file != "" {
		return readOperation(cmd, f.file)
	}
	var op editor.Operation
	kind, err := editor.ParseOperationKind(f.kind)
	if err != nil {
		return op, err
	}
	op = editor.Operation{
		Kind:       kind,
		SourceDay:  f.day,
		TargetDay:  f.targetDay,
		ItemToMove: f.item,
	}
	if f.slot != "" {
		slot, ok := itinerary.ParseSlot(f.slot)
		if !ok {
			return op, fmt.Errorf("unknown slot %q", f.slot)
		}
		op.TargetSlot = slot
	}
	if err := op.Validate(); err != nil {
		return op, err
	}
	return op, nil
}

func readOperation(cmd *cobra.Command, path string) (editor.Operation, error) {
	var op editor.Operation
	data, err := helpers.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return op, err
	}
	raw, err := helpers.ToJSON(path, data)
	if err != nil {
		return op, err
	}
	if err := schema.ValidateOperation(raw); err != nil {
		return op, err
	}
	if err := json.Unmarshal(raw, &op); err != nil {
		return op, fmt.Errorf("failed to decode operation: %w", err)
	}
	if err := op.Validate(); err != nil {
		return op, err
	}
	return op, nil
}

func EditCmd() *cobra.Command {
	var opFlags operationFlags
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Apply one deterministic edit to a document",
		Long: `Edit applies a single named operation to a document and prints the result.
Operations that match nothing leave the document as it was. With
--certify-edits the edited document is re-certified before it is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.FromContext(ctx)
			op, err := opFlags.operation(cmd)
			if err != nil {
				return err
			}
			doc, err := helpers.ReadDocument(inputs(args)[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			p := newPipeline(ctx)
			edited := p.Edit(ctx, doc, op)
			if editor.Normalize(doc).Equal(edited) {
				log.Warn("Edit had no effect", "operation", op.Kind, "item", op.ItemToMove)
			}
			if config.FromContext(ctx).Itinerary.CertifyEdits {
				if edited, err = p.Certify(ctx, edited); err != nil {
					return err
				}
			}
			return newWriter(ctx, cmd.OutOrStdout()).WriteData(edited)
		},
	}
	opFlags.register(cmd)
	return cmd
}

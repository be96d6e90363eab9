package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/itinerary/adapter"
	"github.com/wanderly/wanderly/engine/itinerary/editor"
	"github.com/wanderly/wanderly/engine/itinerary/legacy"
	"github.com/wanderly/wanderly/engine/itinerary/normalizer"
	"github.com/wanderly/wanderly/engine/itinerary/reconstruct"
	"github.com/wanderly/wanderly/pkg/config"
	"github.com/wanderly/wanderly/pkg/logger"
)

// transformFunc turns one parsed document into its output document.
type transformFunc func(ctx context.Context, doc *legacy.Document) (*legacy.Document, error)

func NormalizeCmd() *cobra.Command {
	var canonical bool
	cmd := newTransformCmd(
		"normalize [files...]",
		"Repair slots and duplicate meals without reordering",
		`Normalize fixes invalid slots, retitles meals and drops duplicate lunches
and dinners. Block order is kept unless --canonical is set, in which case the
document is normalized in canonical form and comes back sorted by day and slot.`,
		func(ctx context.Context, doc *legacy.Document) (*legacy.Document, error) {
			if !canonical {
				return editor.Normalize(doc), nil
			}
			title := titleOr(ctx, doc)
			return adapter.ToLegacyItinerary(normalizer.Normalize(adapter.ToCoreState(doc)), title), nil
		},
	)
	cmd.Flags().BoolVar(&canonical, "canonical", false, "Normalize the canonical state and sort by day and slot")
	return cmd
}

func ReconstructCmd() *cobra.Command {
	return newTransformCmd(
		"reconstruct [files...]",
		"Rebuild every day into morning, lunch, afternoon, dinner, evening",
		`Reconstruct rebuilds each day from its items using the fixed section template.
The result is not stamped or verified; use certify for that.`,
		func(ctx context.Context, doc *legacy.Document) (*legacy.Document, error) {
			state := reconstruct.Reconstruct(adapter.ToCoreState(doc))
			return adapter.ToLegacyItinerary(state, titleOr(ctx, doc)), nil
		},
	)
}

func CertifyCmd() *cobra.Command {
	return newTransformCmd(
		"certify [files...]",
		"Reconstruct, stamp and verify drafts",
		`Certify runs the full pipeline on each draft: canonical conversion,
reconstruction, provenance stamping, gate verification and conversion back to
the persisted format. Any rejected draft fails the command.`,
		func(ctx context.Context, doc *legacy.Document) (*legacy.Document, error) {
			return newPipeline(ctx).Certify(ctx, doc)
		},
	)
}

// newTransformCmd builds a command that applies fn to each input file. With
// --out-dir every result is written to a file named after its title;
// otherwise results are printed in input order.
func newTransformCmd(use, short, long string, fn transformFunc) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			log := logger.FromContext(ctx)
			writer := newWriter(ctx, cmd.OutOrStdout())
			stdin := cmd.InOrStdin()
			docs, err := helpers.ForEach(ctx, inputs(args), cfg.CLI.Workers,
				func(ctx context.Context, path string) (*legacy.Document, error) {
					doc, err := helpers.ReadDocument(path, stdin)
					if err != nil {
						return nil, err
					}
					out, err := fn(ctx, doc)
					if err != nil {
						return nil, fmt.Errorf("%s: %w", path, err)
					}
					if outDir == "" {
						return out, nil
					}
					target := helpers.OutputPath(outDir, out.Title, helpers.OutputFormat(cfg.CLI.Format))
					if err := writer.WriteFile(target, out); err != nil {
						return nil, err
					}
					log.Info("Wrote itinerary", "input", path, "output", target)
					return out, nil
				})
			if err != nil {
				return err
			}
			if outDir != "" {
				return nil
			}
			for _, doc := range docs {
				if err := writer.WriteData(doc); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write each result to a file in this directory")
	return cmd
}

func titleOr(ctx context.Context, doc *legacy.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	return config.FromContext(ctx).Itinerary.DefaultTitle
}

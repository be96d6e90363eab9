package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/schema"
	"github.com/wanderly/wanderly/pkg/config"
	"github.com/wanderly/wanderly/pkg/logger"
)

func SchemaCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:       "schema [document|state|operation]",
		Short:     "Print or write JSON Schemas for the persisted formats",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: schema.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if outDir != "" {
				paths, err := schema.GenerateAll(ctx, outDir, config.FromContext(ctx).CLI.Workers)
				if err != nil {
					return err
				}
				logger.FromContext(ctx).Info("Generated schemas", "count", len(paths), "dir", outDir)
				return nil
			}
			name := schema.Document
			if len(args) == 1 {
				name = args[0]
			}
			data, err := schema.Generate(name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write every schema into this directory")
	return cmd
}

// ValidationReport is the validate result for one input.
type ValidationReport struct {
	Input    string   `json:"input"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func ValidateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Strictly validate files against a JSON Schema",
		Long: `Validate checks JSON or YAML files against one of the generated schemas.
Unlike the other commands it does not tolerate loose shapes such as string day
numbers. The command fails when any file is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stdin := cmd.InOrStdin()
			reports, err := helpers.ForEach(ctx, inputs(args), config.FromContext(ctx).CLI.Workers,
				func(_ context.Context, path string) (ValidationReport, error) {
					return validateFile(name, path, stdin)
				})
			if err != nil {
				return err
			}
			if err := newWriter(ctx, cmd.OutOrStdout()).WriteData(reports); err != nil {
				return err
			}
			invalid := 0
			for _, r := range reports {
				if !r.Valid {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d files failed validation", invalid, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "schema", "s", schema.Document, "Schema to validate against (document, state, operation)")
	return cmd
}

func validateFile(name, path string, stdin io.Reader) (ValidationReport, error) {
	report := ValidationReport{Input: path}
	data, err := helpers.ReadInput(path, stdin)
	if err != nil {
		return report, err
	}
	raw, err := helpers.ToJSON(path, data)
	if err != nil {
		report.Problems = []string{err.Error()}
		return report, nil
	}
	err = schema.Validate(name, raw)
	var verr *schema.ValidationError
	switch {
	case err == nil:
		report.Valid = true
	case errors.As(err, &verr):
		report.Problems = verr.Problems
	case errors.Is(err, schema.ErrUnknownSchema):
		return report, err
	default:
		report.Problems = []string{err.Error()}
	}
	return report, nil
}

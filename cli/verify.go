package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/itinerary"
	"github.com/wanderly/wanderly/engine/itinerary/gate"
	"github.com/wanderly/wanderly/engine/schema"
	"github.com/wanderly/wanderly/pkg/config"
	"github.com/wanderly/wanderly/pkg/logger"
)

// Verdict is the verify result for one input.
type Verdict struct {
	Input    string `json:"input"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

func VerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [files...]",
		Short: "Check canonical states against the provenance gate",
		Long: `Verify reads canonical states (JSON or YAML) and reports whether each one
carries builder provenance and a supported schema version. The command fails
when any state is rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g := gate.New(logger.FromContext(ctx))
			stdin := cmd.InOrStdin()
			verdicts, err := helpers.ForEach(ctx, inputs(args), config.FromContext(ctx).CLI.Workers,
				func(ctx context.Context, path string) (Verdict, error) {
					state, err := readState(path, stdin)
					if err != nil {
						return Verdict{}, err
					}
					verdict := Verdict{Input: path, Approved: true}
					if err := g.Verify(ctx, state); err != nil {
						verdict.Approved = false
						verdict.Reason = err.Error()
					}
					return verdict, nil
				})
			if err != nil {
				return err
			}
			if err := newWriter(ctx, cmd.OutOrStdout()).WriteData(verdicts); err != nil {
				return err
			}
			for _, v := range verdicts {
				if !v.Approved {
					return fmt.Errorf("%s: %s", v.Input, v.Reason)
				}
			}
			return nil
		},
	}
}

func readState(path string, stdin io.Reader) (*itinerary.State, error) {
	data, err := helpers.ReadInput(path, stdin)
	if err != nil {
		return nil, err
	}
	raw, err := helpers.ToJSON(path, data)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateState(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var state itinerary.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("%s: failed to decode state: %w", path, err)
	}
	return &state, nil
}

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/pkg/config"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(configShowCmd(), configEnvCmd())
	return cmd
}

// configView is what config show prints.
type configView struct {
	Config  *config.Config               `json:"config"`
	Sources map[string]config.SourceType `json:"sources,omitempty"`
}

func configShowCmd() *cobra.Command {
	var showSources bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show configuration values after every source is applied",
		Long: `Show prints the configuration in the selected format. Secrets are
redacted. With --sources it also lists which source set each key.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			manager := config.ManagerFromContext(ctx)
			view := configView{Config: config.FromContext(ctx)}
			if showSources {
				view.Sources = make(map[string]config.SourceType)
				for _, m := range config.GenerateEnvMappings() {
					view.Sources[m.ConfigPath] = manager.Service.GetSource(m.ConfigPath)
				}
			}
			return newWriter(ctx, cmd.OutOrStdout()).WriteData(view)
		},
	}
	cmd.Flags().BoolVar(&showSources, "sources", false, "Show the source of each value")
	return cmd
}

func configEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables wanderly reads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mappings := config.GenerateEnvMappings()
			sorted := make([]config.EnvMapping, len(mappings))
			copy(sorted, mappings)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].EnvVar < sorted[j].EnvVar })
			for _, m := range sorted {
				marker := ""
				if m.Sensitive {
					marker = " (sensitive)"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-26s %-9s%s\n", m.EnvVar, m.ConfigPath, m.Kind, marker); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

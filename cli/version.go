package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderly/wanderly/pkg/version"
)

func VersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			}
			return newWriter(cmd.Context(), cmd.OutOrStdout()).WriteData(info)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wanderly/wanderly/cli/helpers"
	"github.com/wanderly/wanderly/engine/itinerary/pipeline"
	"github.com/wanderly/wanderly/pkg/config"
	"github.com/wanderly/wanderly/pkg/logger"
)

// DefaultConfigFile is read from the working directory when --config is not
// given. A missing file is not an error.
const DefaultConfigFile = "wanderly.yaml"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "wanderly",
		Short:             "Normalize, certify and edit trip itineraries",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ManagerFromContext(cmd.Context()).Close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", DefaultConfigFile, "Path to the config file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")
	flags.StringP("format", "f", "json", "Output format (json, yaml)")
	flags.Bool("pretty", true, "Indent JSON output")
	flags.Int("workers", 4, "Files processed concurrently")
	flags.String("default-title", "My Trip", "Title for documents without one")
	flags.Int("schema-version", 1, "Schema version stamped on certified itineraries")
	flags.Bool("certify-edits", false, "Re-certify documents after every edit")
	flags.String("session-store", "memory", "Session store (memory, redis)")
	flags.Duration("session-ttl", 24*time.Hour, "Time after the last save before a session expires")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis session store")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database number")

	root.AddCommand(
		NormalizeCmd(),
		ReconstructCmd(),
		CertifyCmd(),
		EditCmd(),
		VerifyCmd(),
		ShowCmd(),
		SchemaCmd(),
		ValidateCmd(),
		WatchCmd(),
		SessionCmd(),
		ConfigCmd(),
		VersionCmd(),
	)
	return root
}

// setup loads configuration, installs the logger and attaches both to the
// command context.
func setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx,
		config.NewYAMLProvider(configFile),
		config.NewEnvProvider(),
		config.NewCLIProvider(changedFlags(cmd)),
	)
	if err != nil {
		return err
	}
	if err := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	ctx = logger.ContextWithLogger(ctx, logger.GetDefault())
	ctx = config.ContextWithManager(ctx, manager)
	cmd.SetContext(ctx)
	logger.FromContext(ctx).Debug("Configuration loaded", "file", configFile, "format", cfg.CLI.Format)
	return nil
}

// changedFlags collects the flags the user set explicitly, so unset flags
// never override file or environment values.
func changedFlags(cmd *cobra.Command) map[string]any {
	out := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if _, ok := config.CLIFlagPaths[f.Name]; ok {
			out[f.Name] = f.Value.String()
		}
	})
	return out
}

// newPipeline builds a certification pipeline from the active configuration.
func newPipeline(ctx context.Context) *pipeline.Pipeline {
	cfg := config.FromContext(ctx)
	return pipeline.New(
		pipeline.WithLogger(logger.FromContext(ctx)),
		pipeline.WithSchemaVersion(cfg.Itinerary.SchemaVersion),
		pipeline.WithDefaultTitle(cfg.Itinerary.DefaultTitle),
	)
}

// newWriter returns an output writer for w using the configured format.
func newWriter(ctx context.Context, w io.Writer) *helpers.OutputWriter {
	cfg := config.FromContext(ctx)
	return helpers.NewOutputWriter(w, helpers.OutputFormat(cfg.CLI.Format), cfg.CLI.Pretty)
}

// inputs returns args, or stdin when no file was named.
func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{helpers.StdinPath}
	}
	return args
}

// Package commands implements the chartdata cobra commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartdata/pkg/config"
	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/version"
)

const (
	envOTLPHeaders = "OTEL_EXPORTER_OTLP_HEADERS"
	logFormatJSON  = "json"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the chartdata command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "chartdata",
		Short: "Inspect, validate, diff and render stored chart datasets",
		Long: `chartdata works with dataset documents saved as JSON, YAML or gob,
optionally LZ4-compressed (for example sales.json or sales.yaml.lz4).

Commands:
  render    Draw documents as HTML pages or PNG images
  inspect   Summarize the series of a document
  validate  Check documents against the document schema
  diff      Compare two documents line by line
  serve     Serve live documents, charts and metrics over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default .chartdata.yaml in . or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newRenderCommand(opts),
		newInspectCommand(opts),
		newValidateCommand(opts),
		newDiffCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// runtime is what a command needs once configuration is loaded.
type runtime struct {
	cfg       *config.Config
	providers observability.Providers
	ops       *observability.OperationMetrics
}

func (rt *runtime) logger() *slog.Logger {
	return rt.providers.Logger
}

func (rt *runtime) close(ctx context.Context) {
	if err := rt.providers.Shutdown(ctx); err != nil {
		rt.logger().WarnContext(ctx, "observability shutdown failed", "error", err)
	}
}

// setup loads configuration and starts observability for one command.
// Logs go to the command's error stream.
func setup(cmd *cobra.Command, opts *rootOptions, mode observability.AppMode) (*runtime, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}

	if opts.verbose {
		level = slog.LevelDebug
	}

	ocfg := observability.DefaultConfig()
	ocfg.ServiceVersion = version.Version
	ocfg.Environment = cfg.Observability.Environment
	ocfg.Mode = mode
	ocfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	ocfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	ocfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	ocfg.LogLevel = level
	ocfg.LogJSON = strings.EqualFold(cfg.Logging.Format, logFormatJSON)
	ocfg.LogOutput = cmd.ErrOrStderr()

	providers, err := observability.Init(ocfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	ops, err := observability.NewOperationMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return &runtime{cfg: cfg, providers: providers, ops: ops}, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chartdata %s\n", version.String())
		},
	}
}

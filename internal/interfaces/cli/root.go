package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"fyrxlab.net/solvermotd/internal/application/ports"
	"fyrxlab.net/solvermotd/internal/application/services"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// DefaultDataDir is where the plugin keeps its managed documents.
const DefaultDataDir = "./plugins/SolverMOTD"

// DataDirEnv overrides the default data directory.
const DataDirEnv = "SOLVERMOTD_DATA_DIR"

// Options holds the global flags shared by every command
type Options struct {
	DataDir        string
	Debug          bool
	LogFormat      string
	HeaderMode     string
	Placeholders   []string
	NoPlaceholders bool
}

// CLIContainer holds all the dependencies for CLI commands. The services are
// populated by Initialize once the global flags are parsed.
type CLIContainer struct {
	Options Options

	Logger     ports.LoggingGateway
	Reconciler *services.ReconcileService
	Plugin     *services.PluginService

	// Initialize wires the services for the parsed options.
	Initialize func(opts Options) error
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	opts := &container.Options
	if opts.DataDir == "" {
		opts.DataDir = defaultDataDir()
	}

	var rootCmd = &cobra.Command{
		Use:   "solvermotd",
		Short: "SolverMOTD - server list banner and config reconciler",
		Long: `SolverMOTD keeps config.yml and messages.yml in the plugin data directory
in sync with the bundled defaults and renders the two-line server list banner.

Missing files are regenerated from the bundled templates, missing keys are
added without touching operator edits, and comment headers are preserved.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if container.Initialize == nil {
				return nil
			}
			if err := container.Initialize(*opts); err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			return nil
		},
	}

	// Set custom version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	// Add persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.DataDir, "data-dir", opts.DataDir, "Plugin data directory (env "+DataDirEnv+")")
	flags.BoolVar(&opts.Debug, "debug", opts.Debug, "Enable debug logging")
	flags.StringVar(&opts.LogFormat, "log-format", "console", "Log format (console, json)")
	flags.StringVar(&opts.HeaderMode, "header-mode", "all", "Comment lines kept on rewrite (all, leading)")
	flags.StringArrayVar(&opts.Placeholders, "placeholder", nil, "Placeholder value as name=value (repeatable)")
	flags.BoolVar(&opts.NoPlaceholders, "no-placeholders", false, "Run as if no placeholder service is installed")

	// Add subcommands
	rootCmd.AddCommand(NewReconcileCommand(container))
	rootCmd.AddCommand(NewPingCommand(container))
	rootCmd.AddCommand(NewPluginCommand(container))
	rootCmd.AddCommand(NewWatchCommand(container))
	rootCmd.AddCommand(NewPreviewCommand(container))

	return rootCmd
}

func defaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	return DefaultDataDir
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Run executes the root command with args, writing to out and errOut.
func Run(ctx context.Context, container *CLIContainer, args []string, out, errOut io.Writer) error {
	rootCmd := NewRootCommand(container)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.ExecuteContext(ctx)
}

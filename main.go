package main

import (
	"fmt"
	"os"
	"path/filepath"

	"shoplist/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
	debugMode = false // Enable with --debug flag
)

// logger is replaced once the command knows where to log
var logger = zap.NewNop()

// debugLog logs a message if debug mode is enabled
func debugLog(format string, args ...interface{}) {
	if debugMode {
		logger.Sugar().Debugf(format, args...)
	}
}

// options are the persistent flags shared by all commands
type options struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "shoplist",
		Short: "A terminal shopping list for Home Assistant to-do lists",
		Long: "shoplist shows a categorized product catalog and toggles items on a\n" +
			"Home Assistant to-do list. Run without arguments to start the TUI.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.ConfigPath()+")")
	root.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shoplist %s (built %s)\n", version, buildTime)
		},
	}
}

// loadConfig loads and validates the configuration. A first run writes the
// defaults so the user has a file to edit.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.FirstRun {
		if err := cfg.Save(opts.configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		path := opts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the production JSON logger. An empty path logs to stderr.
func newLogger(path string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Sampling = nil
	if debugMode {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	logger = l
	return l, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

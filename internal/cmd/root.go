package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clustgo/clust/internal/client"
	"github.com/clustgo/clust/internal/config"
	"github.com/clustgo/clust/internal/observability"
)

const binaryName = "clust"

var (
	cfgFile   string
	verbose   bool
	traceFile string

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}

	stopTracing func()
	tracer      *client.Tracer
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   binaryName,
	Short: "Typed client for the Messages API",
	Long: `clust sends typed requests to the Messages API and decodes the replies,
including <function_calls> blocks embedded in model text.

Use the subcommands to perform specific operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopTracing != nil {
			stopTracing()
			stopTracing = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/clust/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace", "", "trace API requests/responses to NDJSON file")
}

// initConfig sets up the CLI logger and request tracing. Configuration itself
// is loaded lazily by commands that need it, so offline commands keep working
// with a broken config file.
func initConfig() {
	observability.InitCLILogger(binaryName, verbose)
	enableTracing(traceFile)
}

func enableTracing(path string) {
	path = strings.TrimSpace(path)
	if path == "" || tracer != nil {
		return
	}
	opened, err := client.OpenTracer(path)
	if err != nil {
		observability.CLILogger.Warn("Failed to enable tracing", zap.Error(err))
		return
	}
	tracer = opened
	stopTracing = func() {
		_ = opened.Close()
		tracer = nil
	}
	observability.CLILogger.Debug("Request tracing enabled", zap.String("file", path))
}

// loadConfig loads configuration and applies its logging and tracing sections.
// Flags win over config: --verbose keeps debug logging and --trace keeps its file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if !verbose && (cfg.Logging.Level != "" || cfg.Logging.Format != "") {
		logger, logErr := observability.NewLogger(binaryName, cfg.Logging.Level, cfg.Logging.Format)
		if logErr != nil {
			observability.CLILogger.Warn("Ignoring logging config", zap.Error(logErr))
		} else {
			observability.CLILogger = logger
		}
	}
	if traceFile == "" {
		enableTracing(cfg.Debug.TraceFile)
	}

	observability.CLILogger.Debug("Configuration loaded",
		zap.String("config_file", config.UsedConfigFile(cfgFile)),
		zap.Bool("api_key_set", !cfg.APIKey().IsZero()))
	return cfg, nil
}

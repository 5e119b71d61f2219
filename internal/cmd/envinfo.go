package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clustgo/clust/internal/client"
	"github.com/clustgo/clust/internal/config"
	"github.com/clustgo/clust/internal/messages"
	"github.com/clustgo/clust/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display environment, configuration, and version information.",
	Run: func(cmd *cobra.Command, args []string) {
		observability.CLILogger.Info("=== clust Environment Information ===")
		observability.CLILogger.Info("")

		observability.CLILogger.Info("Application:")
		observability.CLILogger.Info("  Name:       " + binaryName)
		observability.CLILogger.Info("  Version:    " + versionInfo.Version)
		observability.CLILogger.Info("  Commit:     " + versionInfo.Commit)
		observability.CLILogger.Info("  Built:      " + versionInfo.BuildDate)
		observability.CLILogger.Info("")

		observability.CLILogger.Info("Runtime:")
		observability.CLILogger.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		observability.CLILogger.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		observability.CLILogger.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		observability.CLILogger.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		observability.CLILogger.Info("")

		observability.CLILogger.Info("Environment:")
		for _, name := range []string{client.APIKeyEnv, "CLUST_API_KEY"} {
			state := "(not set)"
			if strings.TrimSpace(os.Getenv(name)) != "" {
				state = "(set)"
			}
			observability.CLILogger.Info(fmt.Sprintf("  %-18s %s", name+":", state))
		}
		observability.CLILogger.Info("")

		cfg, err := loadConfig()
		if err != nil {
			observability.CLILogger.Warn("Config load failed", zap.Error(err))
			return
		}

		configFile := config.UsedConfigFile(cfgFile)
		if configFile == "" {
			configFile = "(none, defaults and environment only)"
		}
		model, _ := cfg.Model()
		version, _ := cfg.APIVersion()

		observability.CLILogger.Info("Configuration:")
		observability.CLILogger.Info("  Config File:    "+configFile, zap.String("config_file", configFile))
		observability.CLILogger.Info("  API Key:        "+cfg.APIKey().String())
		observability.CLILogger.Info("  API Version:    "+version.String(), zap.String("api_version", version.String()))
		observability.CLILogger.Info("  Base URL:       "+cfg.API.BaseURL, zap.String("base_url", cfg.API.BaseURL))
		observability.CLILogger.Info("  Timeout:        "+cfg.API.Timeout.String(), zap.Duration("timeout", cfg.API.Timeout))
		observability.CLILogger.Info("  Model:          "+model.String(), zap.String("model", model.String()))
		maxTokens := cfg.Defaults.MaxTokens
		if maxTokens == 0 {
			maxTokens = messages.DefaultMaxTokens(model).Value()
		}
		observability.CLILogger.Info(fmt.Sprintf("  Max Tokens:     %d", maxTokens), zap.Int("max_tokens", maxTokens))
		observability.CLILogger.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		observability.CLILogger.Info("  Log Format:     "+cfg.Logging.Format, zap.String("log_format", cfg.Logging.Format))
		observability.CLILogger.Info("  Output:         "+cfg.Output.Format, zap.String("output", cfg.Output.Format))
		if cfg.Debug.TraceFile != "" {
			observability.CLILogger.Info("  Trace File:     "+cfg.Debug.TraceFile, zap.String("trace_file", cfg.Debug.TraceFile))
		}
		observability.CLILogger.Info("")

		observability.CLILogger.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

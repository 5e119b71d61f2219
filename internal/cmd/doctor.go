package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clustgo/clust/internal/config"
	"github.com/clustgo/clust/internal/messages"
	"github.com/clustgo/clust/internal/observability"
)

var (
	doctorLive    bool
	doctorTimeout time.Duration
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long: `Run diagnostic checks on configuration and credentials.

With --live, a one-token message is sent to confirm the key and endpoint work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		observability.CLILogger.Info("=== clust doctor ===")
		observability.CLILogger.Info("")
		observability.CLILogger.Info("Running diagnostic checks...")
		observability.CLILogger.Info("")

		allChecks := true
		totalChecks := 6
		if doctorLive {
			totalChecks++
		}

		// Check 1: Runtime
		goVersion := runtime.Version()
		observability.CLILogger.Info(fmt.Sprintf("[1/%d] Checking runtime... ✅ %s %s/%s", totalChecks, goVersion, runtime.GOOS, runtime.GOARCH),
			zap.String("go_version", goVersion),
			zap.String("os", runtime.GOOS),
			zap.String("arch", runtime.GOARCH))

		// Check 2: Config file
		if configFile := config.UsedConfigFile(cfgFile); configFile != "" {
			observability.CLILogger.Info(fmt.Sprintf("[2/%d] Checking config file... ✅ %s", totalChecks, configFile), zap.String("config_file", configFile))
		} else {
			observability.CLILogger.Info(fmt.Sprintf("[2/%d] Checking config file... ✅ none (defaults and environment)", totalChecks),
				zap.String("searched", config.DefaultConfigPath()))
		}

		// Check 3: Config validity
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			observability.CLILogger.Error(fmt.Sprintf("[3/%d] Checking configuration... ❌ invalid", totalChecks), zap.Error(cfgErr))
			observability.CLILogger.Info("")
			observability.CLILogger.Warn("⚠️  Remaining checks skipped. Fix the configuration and rerun.")
			return fmt.Errorf("%w: %w", errConfigLoad, cfgErr)
		}
		observability.CLILogger.Info(fmt.Sprintf("[3/%d] Checking configuration... ✅ valid", totalChecks))

		// Check 4: API key
		apiKey := cfg.APIKey()
		if apiKey.IsZero() {
			observability.CLILogger.Warn(fmt.Sprintf("[4/%d] Checking API key... ⚠️  not set (export ANTHROPIC_API_KEY or set api.key)", totalChecks))
			allChecks = false
		} else {
			observability.CLILogger.Info(fmt.Sprintf("[4/%d] Checking API key... ✅ %s", totalChecks, apiKey))
		}

		// Check 5: API endpoint
		version, _ := cfg.APIVersion()
		baseURL := strings.TrimSpace(cfg.API.BaseURL)
		if !strings.HasPrefix(baseURL, "https://") && !strings.HasPrefix(baseURL, "http://") {
			observability.CLILogger.Warn(fmt.Sprintf("[5/%d] Checking API endpoint... ⚠️  base URL %q has no http(s) scheme", totalChecks, baseURL))
			allChecks = false
		} else {
			observability.CLILogger.Info(fmt.Sprintf("[5/%d] Checking API endpoint... ✅ %s (version %s)", totalChecks, baseURL, version),
				zap.String("base_url", baseURL),
				zap.String("api_version", version.String()))
		}

		// Check 6: Request defaults
		model, _ := cfg.Model()
		maxTokens := messages.DefaultMaxTokens(model)
		if cfg.Defaults.MaxTokens != 0 {
			maxTokens, _ = messages.NewMaxTokens(cfg.Defaults.MaxTokens, model)
		}
		observability.CLILogger.Info(fmt.Sprintf("[6/%d] Checking request defaults... ✅ %s, max_tokens %s", totalChecks, model, maxTokens),
			zap.String("model", model.String()),
			zap.Int("max_tokens", maxTokens.Value()))

		// Check 7: Live request
		if doctorLive {
			if err := doctorLiveCheck(cmd, cfg, model); err != nil {
				observability.CLILogger.Error(fmt.Sprintf("[7/%d] Checking live request... ❌ failed", totalChecks), zap.Error(err))
				return err
			}
			observability.CLILogger.Info(fmt.Sprintf("[7/%d] Checking live request... ✅ ok", totalChecks))
		}

		observability.CLILogger.Info("")
		if allChecks {
			observability.CLILogger.Info("✅ All checks passed! Your clust setup is healthy.")
		} else {
			observability.CLILogger.Warn("⚠️  Some checks failed. Review the output above for details.")
		}
		observability.CLILogger.Info("")
		observability.CLILogger.Info("=== End Diagnostics ===")
		return nil
	},
}

func doctorLiveCheck(cmd *cobra.Command, cfg *config.Config, model messages.ClaudeModel) error {
	apiClient, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	maxTokens, err := messages.NewMaxTokens(1, model)
	if err != nil {
		return err
	}
	body, err := messages.NewRequestBuilder(model).
		Messages(messages.NewUserMessage(messages.NewTextContent("ping"))).
		MaxTokens(maxTokens).
		Build()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if doctorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, doctorTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := apiClient.CreateAMessage(ctx, body)
	if err != nil {
		return err
	}
	observability.CLILogger.Debug("Live request completed",
		zap.String("id", resp.ID),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Duration("latency", time.Since(start)))
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorLive, "live", false, "send a one-token request to verify credentials")
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 30*time.Second, "timeout for the live request")
}

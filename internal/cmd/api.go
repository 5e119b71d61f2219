package cmd

import (
	"fmt"
	"strings"

	"github.com/clustgo/clust/internal/client"
	"github.com/clustgo/clust/internal/config"
	"github.com/clustgo/clust/internal/observability"
)

// newAPIClient builds a client from resolved configuration.
func newAPIClient(cfg *config.Config) (*client.Client, error) {
	apiKey := cfg.APIKey()
	if apiKey.IsZero() {
		return nil, fmt.Errorf("%w: set %s, CLUST_API_KEY or api.key in the config file", client.ErrAPIKeyNotSet, client.APIKeyEnv)
	}
	version, err := cfg.APIVersion()
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithLogger(observability.CLILogger), client.WithTracer(tracer)}
	if baseURL := strings.TrimSpace(cfg.API.BaseURL); baseURL != "" {
		opts = append(opts, client.WithBaseURL(baseURL))
	}
	if cfg.API.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.API.Timeout))
	}
	return client.New(apiKey, version, nil, opts...), nil
}

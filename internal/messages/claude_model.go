package messages

import (
	"slices"

	"github.com/samber/lo"
)

// ClaudeModel identifies a model accepted by the messages endpoint.
type ClaudeModel string

const (
	Claude3Opus20240229   ClaudeModel = "claude-3-opus-20240229"
	Claude3Sonnet20240229 ClaudeModel = "claude-3-sonnet-20240229"
	Claude3Haiku20240307  ClaudeModel = "claude-3-haiku-20240307"
	Claude21              ClaudeModel = "claude-2.1"
	Claude20              ClaudeModel = "claude-2.0"
	ClaudeInstant12       ClaudeModel = "claude-instant-1.2"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = Claude3Sonnet20240229

// maxOutputTokens is the largest max_tokens each model accepts.
var maxOutputTokens = map[ClaudeModel]int{
	Claude3Opus20240229:   4096,
	Claude3Sonnet20240229: 4096,
	Claude3Haiku20240307:  4096,
	Claude21:              4096,
	Claude20:              4096,
	ClaudeInstant12:       4096,
}

// ParseClaudeModel validates a model identifier.
func ParseClaudeModel(value string) (ClaudeModel, error) {
	model := ClaudeModel(value)
	if _, ok := maxOutputTokens[model]; !ok {
		return "", newValidationError("model", value, "unknown model %q (known: %v)", value, KnownModels())
	}
	return model, nil
}

// KnownModels lists every model identifier in sorted order.
func KnownModels() []ClaudeModel {
	models := lo.Keys(maxOutputTokens)
	slices.Sort(models)
	return models
}

func (m ClaudeModel) String() string { return string(m) }

// Known reports whether m is a recognized model.
func (m ClaudeModel) Known() bool {
	_, ok := maxOutputTokens[m]
	return ok
}

// MaxTokens returns the model's output ceiling, or 0 for unknown models.
func (m ClaudeModel) MaxTokens() int {
	return maxOutputTokens[m]
}

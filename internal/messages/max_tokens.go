package messages

import (
	"encoding/json"
	"fmt"
)

// MaxTokens bounds the number of generated tokens for a model.
type MaxTokens struct {
	value int
}

// NewMaxTokens accepts values in [1, model.MaxTokens()].
func NewMaxTokens(value int, model ClaudeModel) (MaxTokens, error) {
	if !model.Known() {
		return MaxTokens{}, newValidationError("model", model, "unknown model %q", model)
	}
	if value < 1 {
		return MaxTokens{}, newValidationError("max_tokens", value, "must be at least 1")
	}
	if limit := model.MaxTokens(); value > limit {
		return MaxTokens{}, newValidationError("max_tokens", value, "must not exceed %d for %s", limit, model)
	}
	return MaxTokens{value: value}, nil
}

// DefaultMaxTokens returns the model's ceiling.
func DefaultMaxTokens(model ClaudeModel) MaxTokens {
	return MaxTokens{value: model.MaxTokens()}
}

func (m MaxTokens) Value() int { return m.value }

func (m MaxTokens) String() string { return fmt.Sprintf("%d", m.value) }

// Fits reports whether the value is within model's ceiling.
func (m MaxTokens) Fits(model ClaudeModel) bool {
	return m.value >= 1 && m.value <= model.MaxTokens()
}

func (m MaxTokens) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.value)
}

func (m *MaxTokens) UnmarshalJSON(data []byte) error {
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("max_tokens: %w", err)
	}
	if value < 1 {
		return newValidationError("max_tokens", value, "must be at least 1")
	}
	m.value = value
	return nil
}

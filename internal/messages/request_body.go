package messages

import (
	"errors"
	"fmt"
)

// MessagesRequestBody is the payload of a create-message call.
// Optional fields are nil when unset and omitted from the wire.
type MessagesRequestBody struct {
	Model         ClaudeModel    `json:"model"`
	Messages      []Message      `json:"messages"`
	System        *SystemPrompt  `json:"system,omitempty"`
	MaxTokens     MaxTokens      `json:"max_tokens"`
	Metadata      *Metadata      `json:"metadata,omitempty"`
	StopSequences []StopSequence `json:"stop_sequences,omitempty"`
	Stream        StreamOption   `json:"stream,omitempty"`
	Temperature   *Temperature   `json:"temperature,omitempty"`
	TopK          *TopK          `json:"top_k,omitempty"`
	TopP          *TopP          `json:"top_p,omitempty"`
}

// Validate checks cross-field constraints the field constructors cannot.
func (b MessagesRequestBody) Validate() error {
	var errs []error
	if !b.Model.Known() {
		errs = append(errs, newValidationError("model", b.Model, "unknown model %q", b.Model))
	}
	if len(b.Messages) == 0 {
		errs = append(errs, newValidationError("messages", len(b.Messages), "at least one message is required"))
	} else if b.Messages[0].Role != RoleUser {
		errs = append(errs, newValidationError("messages", b.Messages[0].Role, "first message must have role %q", RoleUser))
	}
	for i, msg := range b.Messages {
		if _, err := ParseRole(string(msg.Role)); err != nil {
			errs = append(errs, fmt.Errorf("messages[%d]: %w", i, err))
		}
	}
	if b.Model.Known() && !b.MaxTokens.Fits(b.Model) {
		errs = append(errs, newValidationError("max_tokens", b.MaxTokens.Value(),
			"must be between 1 and %d for %s", b.Model.MaxTokens(), b.Model))
	}
	return errors.Join(errs...)
}

func (b MessagesRequestBody) String() string { return prettyJSON(b) }

// RequestBuilder assembles a MessagesRequestBody.
type RequestBuilder struct {
	body MessagesRequestBody
}

// NewRequestBuilder starts a request for model with max_tokens set to the model ceiling.
func NewRequestBuilder(model ClaudeModel) *RequestBuilder {
	return &RequestBuilder{body: MessagesRequestBody{
		Model:     model,
		MaxTokens: DefaultMaxTokens(model),
	}}
}

func (r *RequestBuilder) Messages(messages ...Message) *RequestBuilder {
	r.body.Messages = append(r.body.Messages, messages...)
	return r
}

func (r *RequestBuilder) System(system SystemPrompt) *RequestBuilder {
	r.body.System = &system
	return r
}

func (r *RequestBuilder) MaxTokens(maxTokens MaxTokens) *RequestBuilder {
	r.body.MaxTokens = maxTokens
	return r
}

func (r *RequestBuilder) Metadata(metadata Metadata) *RequestBuilder {
	r.body.Metadata = &metadata
	return r
}

func (r *RequestBuilder) StopSequences(sequences ...StopSequence) *RequestBuilder {
	r.body.StopSequences = append(r.body.StopSequences, sequences...)
	return r
}

func (r *RequestBuilder) Stream(stream StreamOption) *RequestBuilder {
	r.body.Stream = stream
	return r
}

func (r *RequestBuilder) Temperature(temperature Temperature) *RequestBuilder {
	r.body.Temperature = &temperature
	return r
}

func (r *RequestBuilder) TopK(topK TopK) *RequestBuilder {
	r.body.TopK = &topK
	return r
}

func (r *RequestBuilder) TopP(topP TopP) *RequestBuilder {
	r.body.TopP = &topP
	return r
}

// Build validates and returns the request body.
func (r *RequestBuilder) Build() (MessagesRequestBody, error) {
	if err := r.body.Validate(); err != nil {
		return MessagesRequestBody{}, err
	}
	body := r.body
	body.Messages = append([]Message(nil), r.body.Messages...)
	body.StopSequences = append([]StopSequence(nil), r.body.StopSequences...)
	return body, nil
}

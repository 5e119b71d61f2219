package messages

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt is the system instruction sent alongside the messages.
type SystemPrompt struct {
	value string
}

func NewSystemPrompt(value string) SystemPrompt { return SystemPrompt{value: value} }

func (s SystemPrompt) Value() string  { return s.value }
func (s SystemPrompt) String() string { return s.value }

func (s SystemPrompt) MarshalJSON() ([]byte, error) { return json.Marshal(s.value) }

func (s *SystemPrompt) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.value)
}

// StopSequence is a custom string that stops generation.
type StopSequence struct {
	value string
}

func NewStopSequence(value string) (StopSequence, error) {
	if value == "" {
		return StopSequence{}, newValidationError("stop_sequences", value, "must not be empty")
	}
	return StopSequence{value: value}, nil
}

func (s StopSequence) Value() string  { return s.value }
func (s StopSequence) String() string { return s.value }

func (s StopSequence) MarshalJSON() ([]byte, error) { return json.Marshal(s.value) }

func (s *StopSequence) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.value)
}

// UserID is an opaque end-user identifier placed in request metadata.
type UserID struct {
	value string
}

func NewUserID(value string) (UserID, error) {
	if strings.TrimSpace(value) == "" {
		return UserID{}, newValidationError("metadata.user_id", value, "must not be blank")
	}
	return UserID{value: value}, nil
}

func (u UserID) Value() string  { return u.value }
func (u UserID) String() string { return u.value }

func (u UserID) MarshalJSON() ([]byte, error) { return json.Marshal(u.value) }

func (u *UserID) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &u.value)
}

// Metadata describes the request.
type Metadata struct {
	UserID *UserID `json:"user_id,omitempty"`
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser, RoleAssistant:
		return Role(value), nil
	default:
		return "", newValidationError("role", value, "unknown role %q", value)
	}
}

func (r Role) String() string { return string(r) }

func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("role: %w", err)
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// StopReason explains why generation stopped.
type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
)

func ParseStopReason(value string) (StopReason, error) {
	switch StopReason(value) {
	case StopReasonEndTurn, StopReasonMaxTokens, StopReasonStopSequence:
		return StopReason(value), nil
	default:
		return "", newValidationError("stop_reason", value, "unknown stop reason %q", value)
	}
}

func (r StopReason) String() string { return string(r) }

func (r *StopReason) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("stop_reason: %w", err)
	}
	parsed, err := ParseStopReason(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// StreamOption selects between a single response and incremental streaming.
// It serializes as the boolean "stream" field.
type StreamOption int

const (
	ReturnOnce StreamOption = iota
	ReturnStream
)

func (s StreamOption) String() string {
	if s == ReturnStream {
		return "return_stream"
	}
	return "return_once"
}

func (s StreamOption) MarshalJSON() ([]byte, error) {
	return json.Marshal(s == ReturnStream)
}

func (s *StreamOption) UnmarshalJSON(data []byte) error {
	var stream bool
	if err := json.Unmarshal(data, &stream); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if stream {
		*s = ReturnStream
	} else {
		*s = ReturnOnce
	}
	return nil
}

// Usage reports billed tokens.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// Message is one turn of the conversation.
type Message struct {
	Role    Role    `json:"role"`
	Content Content `json:"content"`
}

func NewUserMessage(content Content) Message {
	return Message{Role: RoleUser, Content: content}
}

func NewAssistantMessage(content Content) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func (m Message) String() string { return prettyJSON(m) }

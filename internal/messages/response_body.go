package messages

// MessageObjectType is the type field of a successful response.
const MessageObjectType = "message"

// MessagesResponseBody is a decoded create-message response.
type MessagesResponseBody struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Role         Role          `json:"role"`
	Content      Content       `json:"content"`
	Model        ClaudeModel   `json:"model"`
	StopReason   *StopReason   `json:"stop_reason"`
	StopSequence *StopSequence `json:"stop_sequence"`
	Usage        Usage         `json:"usage"`
}

// Text returns the first text of the response content.
func (r *MessagesResponseBody) Text() (string, error) {
	return r.Content.FlattenIntoText()
}

// ExcludeFunctionCalls decodes the first function_calls span of the response text.
func (r *MessagesResponseBody) ExcludeFunctionCalls() (FunctionCalls, error) {
	return r.Content.ExcludeFunctionCalls()
}

func (r *MessagesResponseBody) String() string { return prettyJSON(r) }

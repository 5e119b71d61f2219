package messages

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "id": "msg_01XFDUDYJgAACzvnptvVoYEL",
  "type": "message",
  "role": "assistant",
  "content": [{"type": "text", "text": "Hello!"}],
  "model": "claude-3-opus-20240229",
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 6}
}`

func TestDecodeResponseBody(t *testing.T) {
	var resp MessagesResponseBody
	require.NoError(t, json.Unmarshal([]byte(sampleResponse), &resp))

	assert.Equal(t, "msg_01XFDUDYJgAACzvnptvVoYEL", resp.ID)
	assert.Equal(t, MessageObjectType, resp.Type)
	assert.Equal(t, RoleAssistant, resp.Role)
	assert.Equal(t, Claude3Opus20240229, resp.Model)
	require.NotNil(t, resp.StopReason)
	assert.Equal(t, StopReasonEndTurn, *resp.StopReason)
	assert.Nil(t, resp.StopSequence)
	assert.Equal(t, Usage{InputTokens: 12, OutputTokens: 6}, resp.Usage)
	assert.Equal(t, 18, resp.Usage.Total())

	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)
}

func TestDecodeResponseBodyStopSequenceAndNullReason(t *testing.T) {
	payload := `{"id":"msg_1","type":"message","role":"assistant","content":"done","model":"claude-2.1",
		"stop_reason":null,"stop_sequence":"\n\nHuman:","usage":{"input_tokens":1,"output_tokens":1}}`

	var resp MessagesResponseBody
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	assert.Nil(t, resp.StopReason)
	require.NotNil(t, resp.StopSequence)
	assert.Equal(t, "\n\nHuman:", resp.StopSequence.Value())
	assert.Equal(t, SingleText, resp.Content.Kind())
}

func TestDecodeResponseBodyUnknownStopReason(t *testing.T) {
	payload := `{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-2.1",
		"stop_reason":"exploded","usage":{"input_tokens":1,"output_tokens":1}}`

	var resp MessagesResponseBody
	assert.Error(t, json.Unmarshal([]byte(payload), &resp))
}

func TestResponseExcludeFunctionCalls(t *testing.T) {
	resp := MessagesResponseBody{Content: NewBlocksContent(NewTextBlock("Let me check.\n" + tickerCall))}

	calls, err := resp.ExcludeFunctionCalls()
	require.NoError(t, err)
	assert.Equal(t, tickerCalls(), calls)
}

func TestMessagesErrorFormatting(t *testing.T) {
	apiErr := &MessagesError{
		Kind:       KindAPI,
		StatusCode: 429,
		API:        &APIError{Type: APIErrorRateLimit, Message: "slow down"},
	}
	assert.Contains(t, apiErr.Error(), "status 429")
	assert.Contains(t, apiErr.Error(), "rate_limit_error")
	assert.True(t, IsKind(apiErr, KindAPI))

	errType, ok := APIErrorTypeOf(apiErr)
	require.True(t, ok)
	assert.Equal(t, APIErrorRateLimit, errType)
	assert.True(t, errType.Retryable())
	assert.Equal(t, 429, errType.StatusCode())

	statusErr := &MessagesError{Kind: KindStatus, StatusCode: 502, Body: []byte("bad gateway")}
	assert.Contains(t, statusErr.Error(), "status 502")
	_, ok = APIErrorTypeOf(statusErr)
	assert.False(t, ok)
	assert.False(t, APIErrorAuthentication.Retryable())
}

func TestMessagesErrorTruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", 511) + strings.Repeat("é", 10)
	err := &MessagesError{Kind: KindStatus, StatusCode: 500, Body: []byte(body)}
	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, strings.Repeat("a", 511)+"..."))

	assert.Equal(t, "日...", truncate("日本語", 4))
	assert.Equal(t, "...", truncate("日本語", 2))
	assert.Equal(t, "short", truncate("short", 32))
}

package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clustgo/clust/internal/encode"
	"github.com/clustgo/clust/internal/messages"
)

func sampleResponse() *messages.MessagesResponseBody {
	reason := messages.StopReasonEndTurn
	return &messages.MessagesResponseBody{
		ID:   "msg_01",
		Type: messages.MessageObjectType,
		Role: messages.RoleAssistant,
		Content: messages.NewBlocksContent(
			messages.NewTextBlock("The answer is 42."),
			messages.NewImageBlock(messages.NewBase64ImageSource(messages.ImageMediaTypePNG, encode.EncodeBase64String([]byte("12345")))),
		),
		Model:      messages.Claude3Opus20240229,
		StopReason: &reason,
		Usage:      messages.Usage{InputTokens: 12, OutputTokens: 7},
	}
}

func sampleCalls() messages.FunctionCalls {
	return messages.FunctionCalls{Invoke: messages.Invoke{
		ToolName:   "get_weather",
		Parameters: map[string]string{"unit": "celsius", "city": "Oslo | Norway"},
	}}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func TestJSONFormatterUsesWireShape(t *testing.T) {
	rendered, err := NewFormatter(FormatJSON).FormatResponse(sampleResponse())
	require.NoError(t, err)

	var decoded messages.MessagesResponseBody
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	require.Equal(t, *sampleResponse(), decoded)

	rendered, err = NewFormatter(FormatJSON).FormatFunctionCalls(sampleCalls())
	require.NoError(t, err)
	require.Contains(t, rendered, `"tool_name": "get_weather"`)
}

func TestYAMLFormatter(t *testing.T) {
	rendered, err := NewFormatter(FormatYAML).FormatResponse(sampleResponse())
	require.NoError(t, err)
	require.Contains(t, rendered, "id: msg_01")
	require.Contains(t, rendered, "stop_reason: end_turn")
	require.Contains(t, rendered, "text: The answer is 42.")
	require.Contains(t, rendered, "media_type: image/png")
	require.Contains(t, rendered, "bytes: 5")

	rendered, err = NewFormatter(FormatYAML).FormatFunctionCalls(sampleCalls())
	require.NoError(t, err)
	require.Contains(t, rendered, "tool_name: get_weather")
	require.Contains(t, rendered, "unit: celsius")
}

func TestTableFormatter(t *testing.T) {
	rendered, err := NewFormatter(FormatTable).FormatResponse(sampleResponse())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rendered, "The answer is 42."))
	require.Contains(t, rendered, "msg_01")
	require.Contains(t, rendered, "image/png, 5 bytes")
	require.Contains(t, rendered, "12 in / 7 out")

	rendered, err = NewFormatter(FormatTable).FormatFunctionCalls(sampleCalls())
	require.NoError(t, err)
	require.Contains(t, rendered, "get_weather")
	require.Less(t, strings.Index(rendered, "city"), strings.Index(rendered, "unit"))
}

func TestMarkdownFormatterEscapesCells(t *testing.T) {
	rendered, err := NewFormatter(FormatMarkdown).FormatFunctionCalls(sampleCalls())
	require.NoError(t, err)
	require.Contains(t, rendered, "## `get_weather`")
	require.Contains(t, rendered, `| city | Oslo \| Norway |`)

	rendered, err = NewFormatter(FormatMarkdown).FormatResponse(sampleResponse())
	require.NoError(t, err)
	require.Contains(t, rendered, "| Model | claude-3-opus-20240229 |")
	require.Contains(t, rendered, "**Tokens**: 12 in / 7 out")
}

func TestTextFormatter(t *testing.T) {
	rendered, err := NewFormatter(FormatText).FormatResponse(sampleResponse())
	require.NoError(t, err)
	require.Equal(t, "The answer is 42.", rendered)

	rendered, err = NewFormatter(FormatText).FormatFunctionCalls(sampleCalls())
	require.NoError(t, err)
	require.Equal(t, `get_weather city="Oslo | Norway" unit="celsius"`, rendered)
}

func TestNilResponseRendersEmpty(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatJSON, FormatMarkdown, FormatYAML, FormatText} {
		rendered, err := NewFormatter(format).FormatResponse(nil)
		require.NoError(t, err)
		require.Empty(t, rendered)
	}
}

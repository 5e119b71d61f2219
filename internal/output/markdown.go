package output

import (
	"fmt"
	"strings"

	"github.com/clustgo/clust/internal/messages"
)

// MarkdownFormatter renders results as markdown.
type MarkdownFormatter struct{}

// FormatResponse renders the response text followed by a metadata table.
func (f *MarkdownFormatter) FormatResponse(resp *messages.MessagesResponseBody) (string, error) {
	if resp == nil {
		return "", nil
	}
	view := newResponseView(resp)

	var sb strings.Builder
	for _, text := range textBlocks(view.Content) {
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| ID | %s |\n", escapeMarkdownCell(view.ID)))
	sb.WriteString(fmt.Sprintf("| Model | %s |\n", escapeMarkdownCell(view.Model)))
	sb.WriteString(fmt.Sprintf("| Stop reason | %s |\n", escapeMarkdownCell(stopLabel(view))))
	for i, block := range view.Content {
		sb.WriteString(fmt.Sprintf("| Block %d (%s) | %s |\n", i+1, block.Type, escapeMarkdownCell(block.summary())))
	}
	sb.WriteString(fmt.Sprintf("\n**Tokens**: %d in / %d out\n", view.Usage.InputTokens, view.Usage.OutputTokens))
	return sb.String(), nil
}

// FormatFunctionCalls renders a heading with the tool name and a parameter table.
func (f *MarkdownFormatter) FormatFunctionCalls(calls messages.FunctionCalls) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## `%s`\n\n", calls.Invoke.ToolName))
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	for _, key := range sortedParameters(calls.Invoke.Parameters) {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n",
			escapeMarkdownCell(key),
			escapeMarkdownCell(calls.Invoke.Parameters[key]),
		))
	}
	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "|", "\\|")
	return strings.ReplaceAll(value, "\n", "<br>")
}

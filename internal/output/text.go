package output

import (
	"fmt"
	"strings"

	"github.com/clustgo/clust/internal/messages"
)

// TextFormatter prints only the generated text, for piping into other tools.
type TextFormatter struct{}

func (f *TextFormatter) FormatResponse(resp *messages.MessagesResponseBody) (string, error) {
	if resp == nil {
		return "", nil
	}
	return strings.Join(textBlocks(contentView(resp.Content)), "\n\n"), nil
}

// FormatFunctionCalls prints "name key=value ..." on one line.
func (f *TextFormatter) FormatFunctionCalls(calls messages.FunctionCalls) (string, error) {
	parts := []string{calls.Invoke.ToolName}
	for _, key := range sortedParameters(calls.Invoke.Parameters) {
		parts = append(parts, fmt.Sprintf("%s=%q", key, calls.Invoke.Parameters[key]))
	}
	return strings.Join(parts, " "), nil
}

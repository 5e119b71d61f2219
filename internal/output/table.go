package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/clustgo/clust/internal/messages"
)

// TableFormatter prints response text followed by a summary table.
type TableFormatter struct{}

// FormatResponse renders the response text and its metadata.
func (f *TableFormatter) FormatResponse(resp *messages.MessagesResponseBody) (string, error) {
	if resp == nil {
		return "", nil
	}
	view := newResponseView(resp)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"ID", view.ID})
	t.AppendRow(table.Row{"Model", view.Model})
	t.AppendRow(table.Row{"Stop reason", stopLabel(view)})
	for i, block := range view.Content {
		t.AppendRow(table.Row{fmt.Sprintf("Block %d (%s)", i+1, block.Type), block.summary()})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Tokens", fmt.Sprintf("%d in / %d out", view.Usage.InputTokens, view.Usage.OutputTokens)})

	var sb strings.Builder
	if texts := textBlocks(view.Content); len(texts) > 0 {
		sb.WriteString(strings.Join(texts, "\n\n"))
		sb.WriteString("\n\n")
	}
	sb.WriteString(t.Render())
	return sb.String(), nil
}

// FormatFunctionCalls renders the tool name followed by one row per parameter.
func (f *TableFormatter) FormatFunctionCalls(calls messages.FunctionCalls) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Parameter", "Value"})
	t.AppendRow(table.Row{"(tool)", calls.Invoke.ToolName})
	t.AppendSeparator()
	for _, key := range sortedParameters(calls.Invoke.Parameters) {
		t.AppendRow(table.Row{key, calls.Invoke.Parameters[key]})
	}
	return t.Render(), nil
}

func stopLabel(view responseView) string {
	switch {
	case view.StopReason == "":
		return "-"
	case view.StopSequence != "":
		return fmt.Sprintf("%s (%q)", view.StopReason, view.StopSequence)
	default:
		return view.StopReason
	}
}

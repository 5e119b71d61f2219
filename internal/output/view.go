package output

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/clustgo/clust/internal/encode"
	"github.com/clustgo/clust/internal/messages"
)

// responseView flattens a response for the yaml, table and markdown renderers.
type responseView struct {
	ID           string      `yaml:"id"`
	Model        string      `yaml:"model"`
	Role         string      `yaml:"role"`
	StopReason   string      `yaml:"stop_reason,omitempty"`
	StopSequence string      `yaml:"stop_sequence,omitempty"`
	Usage        usageView   `yaml:"usage"`
	Content      []blockView `yaml:"content"`
}

type usageView struct {
	InputTokens  int `yaml:"input_tokens"`
	OutputTokens int `yaml:"output_tokens"`
}

type blockView struct {
	Type      string `yaml:"type"`
	Text      string `yaml:"text,omitempty"`
	MediaType string `yaml:"media_type,omitempty"`
	Bytes     int    `yaml:"bytes,omitempty"`
}

func newResponseView(resp *messages.MessagesResponseBody) responseView {
	view := responseView{
		ID:    resp.ID,
		Model: resp.Model.String(),
		Role:  resp.Role.String(),
		Usage: usageView{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}
	if resp.StopReason != nil {
		view.StopReason = resp.StopReason.String()
	}
	if resp.StopSequence != nil {
		view.StopSequence = resp.StopSequence.Value()
	}
	view.Content = contentView(resp.Content)
	return view
}

func contentView(content messages.Content) []blockView {
	if text, ok := content.Text(); ok {
		return []blockView{{Type: string(messages.ContentTypeText), Text: text}}
	}
	return lo.Map(content.Blocks(), func(block messages.ContentBlock, _ int) blockView {
		switch b := block.(type) {
		case messages.TextContentBlock:
			return blockView{Type: string(b.Type()), Text: b.Text}
		case messages.ImageContentBlock:
			size, _ := encode.DecodedSize(b.Source.Data())
			return blockView{Type: string(b.Type()), MediaType: b.Source.MediaType().String(), Bytes: size}
		default:
			return blockView{Type: string(block.Type())}
		}
	})
}

func (b blockView) summary() string {
	if b.Type == string(messages.ContentTypeImage) {
		return fmt.Sprintf("%s, %d bytes", b.MediaType, b.Bytes)
	}
	return fmt.Sprintf("%d chars", len(b.Text))
}

func textBlocks(blocks []blockView) []string {
	return lo.FilterMap(blocks, func(b blockView, _ int) (string, bool) {
		return b.Text, b.Text != ""
	})
}

// sortedParameters returns parameter names in a stable order.
func sortedParameters(params map[string]string) []string {
	keys := lo.Keys(params)
	slices.Sort(keys)
	return keys
}

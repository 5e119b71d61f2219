package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ContentBlock is one element of a multi-block content.
// The set of implementations is closed: TextContentBlock and ImageContentBlock.
type ContentBlock interface {
	Type() ContentType
	isContentBlock()
}

// TextContentBlock carries text. A block decoded from a text_delta keeps that
// type so it encodes back unchanged.
type TextContentBlock struct {
	Text  string
	delta bool
}

// NewTextBlock returns a text block.
func NewTextBlock(text string) TextContentBlock {
	return TextContentBlock{Text: text}
}

func (b TextContentBlock) Type() ContentType {
	if b.delta {
		return ContentTypeTextDelta
	}
	return ContentTypeText
}

func (TextContentBlock) isContentBlock() {}

type textContentBlockJSON struct {
	Type ContentType `json:"type"`
	Text string      `json:"text"`
}

func (b TextContentBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(textContentBlockJSON{Type: b.Type(), Text: b.Text})
}

func (b TextContentBlock) String() string { return prettyJSON(b) }

// ImageContentBlock carries an image source.
type ImageContentBlock struct {
	Source ImageContentSource
}

// NewImageBlock returns an image block.
func NewImageBlock(source ImageContentSource) ImageContentBlock {
	return ImageContentBlock{Source: source}
}

func (ImageContentBlock) Type() ContentType { return ContentTypeImage }
func (ImageContentBlock) isContentBlock()   {}

type imageContentBlockJSON struct {
	Type   ContentType        `json:"type"`
	Source ImageContentSource `json:"source"`
}

func (b ImageContentBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageContentBlockJSON{Type: ContentTypeImage, Source: b.Source})
}

func (b ImageContentBlock) String() string { return prettyJSON(b) }

func decodeContentBlock(data json.RawMessage) (ContentBlock, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("content block: %w", err)
	}
	contentType, err := ParseContentType(head.Type)
	if err != nil {
		return nil, err
	}
	switch contentType {
	case ContentTypeText, ContentTypeTextDelta:
		var block textContentBlockJSON
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, fmt.Errorf("text block: %w", err)
		}
		return TextContentBlock{Text: block.Text, delta: contentType == ContentTypeTextDelta}, nil
	case ContentTypeImage:
		var block imageContentBlockJSON
		if err := json.Unmarshal(data, &block); err != nil {
			return nil, fmt.Errorf("image block: %w", err)
		}
		return ImageContentBlock{Source: block.Source}, nil
	default:
		return nil, newValidationError("type", head.Type, "unsupported content block %q", head.Type)
	}
}

// ContentKind distinguishes the two content shapes.
type ContentKind int

const (
	// SingleText content serializes as a bare JSON string.
	SingleText ContentKind = iota
	// MultipleBlocks content serializes as a JSON array of blocks.
	MultipleBlocks
)

func (k ContentKind) String() string {
	if k == MultipleBlocks {
		return "multiple_blocks"
	}
	return "single_text"
}

// Content is the body of a message: either one string or a list of blocks.
// The zero value is SingleText with empty text.
type Content struct {
	kind   ContentKind
	text   string
	blocks []ContentBlock
}

// NewTextContent returns SingleText content.
func NewTextContent(text string) Content {
	return Content{kind: SingleText, text: text}
}

// NewBlocksContent returns MultipleBlocks content holding a copy of blocks.
func NewBlocksContent(blocks ...ContentBlock) Content {
	copied := make([]ContentBlock, len(blocks))
	copy(copied, blocks)
	return Content{kind: MultipleBlocks, blocks: copied}
}

// NewImageContent returns MultipleBlocks content with a single image block.
func NewImageContent(source ImageContentSource) Content {
	return NewBlocksContent(NewImageBlock(source))
}

// BlockSource is any value that converts to a content block.
type BlockSource interface {
	~string | TextContentBlock | ImageContentBlock | ImageContentSource
}

// ContentFrom converts each value to a block and returns MultipleBlocks content.
func ContentFrom[T BlockSource](values ...T) Content {
	return NewBlocksContent(lo.Map(values, func(value T, _ int) ContentBlock {
		return blockFrom(value)
	})...)
}

func blockFrom[T BlockSource](value T) ContentBlock {
	switch v := any(value).(type) {
	case TextContentBlock:
		return v
	case ImageContentBlock:
		return v
	case ImageContentSource:
		return NewImageBlock(v)
	default:
		return NewTextBlock(fmt.Sprint(v))
	}
}

func (c Content) Kind() ContentKind { return c.kind }

// Text returns the text of SingleText content.
func (c Content) Text() (string, bool) {
	if c.kind != SingleText {
		return "", false
	}
	return c.text, true
}

// Blocks returns a copy of the blocks of MultipleBlocks content.
func (c Content) Blocks() []ContentBlock {
	if c.kind != MultipleBlocks {
		return nil
	}
	copied := make([]ContentBlock, len(c.blocks))
	copy(copied, c.blocks)
	return copied
}

// FlattenIntoText returns the single text, or the text of the first block.
// Only the first block is considered.
func (c Content) FlattenIntoText() (string, error) {
	if c.kind == SingleText {
		return c.text, nil
	}
	if len(c.blocks) == 0 {
		return "", ErrEmptyContent
	}
	text, ok := c.blocks[0].(TextContentBlock)
	if !ok {
		return "", ErrNotFoundTargetBlock
	}
	return text.Text, nil
}

// FlattenIntoImageSource returns the source of the first block when it is an image.
func (c Content) FlattenIntoImageSource() (ImageContentSource, error) {
	if c.kind == SingleText {
		return ImageContentSource{}, ErrNotFoundTargetBlock
	}
	if len(c.blocks) == 0 {
		return ImageContentSource{}, ErrEmptyContent
	}
	image, ok := c.blocks[0].(ImageContentBlock)
	if !ok {
		return ImageContentSource{}, ErrNotFoundTargetBlock
	}
	return image.Source, nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.kind == SingleText {
		return json.Marshal(c.text)
	}
	blocks := c.blocks
	if blocks == nil {
		blocks = []ContentBlock{}
	}
	return json.Marshal(blocks)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("content: empty json value")
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("content: %w", err)
		}
		*c = NewTextContent(text)
		return nil
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return fmt.Errorf("content: %w", err)
		}
		blocks := make([]ContentBlock, 0, len(raws))
		for i, raw := range raws {
			block, err := decodeContentBlock(raw)
			if err != nil {
				return fmt.Errorf("content[%d]: %w", i, err)
			}
			blocks = append(blocks, block)
		}
		*c = Content{kind: MultipleBlocks, blocks: blocks}
		return nil
	default:
		return fmt.Errorf("content: expected string or array, got %s", truncate(string(trimmed), 32))
	}
}

func (c Content) String() string { return prettyJSON(c) }

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", err)
	}
	return strings.TrimSpace(string(data))
}

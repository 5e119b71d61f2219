package messages

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ContentType tags a content block.
type ContentType string

const (
	ContentTypeText      ContentType = "text"
	ContentTypeImage     ContentType = "image"
	ContentTypeTextDelta ContentType = "text_delta"
)

func (t ContentType) String() string { return string(t) }

// ParseContentType validates a content block tag.
func ParseContentType(value string) (ContentType, error) {
	switch ContentType(value) {
	case ContentTypeText, ContentTypeImage, ContentTypeTextDelta:
		return ContentType(value), nil
	default:
		return "", newValidationError("type", value, "unknown content type %q", value)
	}
}

// ImageSourceType is the encoding of an image source. Only base64 exists.
type ImageSourceType string

const ImageSourceTypeBase64 ImageSourceType = "base64"

func (t ImageSourceType) String() string { return string(t) }

// ImageMediaType is the MIME type of an image source.
type ImageMediaType string

const (
	ImageMediaTypeJPEG ImageMediaType = "image/jpeg"
	ImageMediaTypePNG  ImageMediaType = "image/png"
	ImageMediaTypeGIF  ImageMediaType = "image/gif"
	ImageMediaTypeWebP ImageMediaType = "image/webp"
)

// DefaultImageMediaType is used when no media type is given.
const DefaultImageMediaType = ImageMediaTypeJPEG

var extensionMediaTypes = map[string]ImageMediaType{
	"jpeg": ImageMediaTypeJPEG,
	"jpg":  ImageMediaTypeJPEG,
	"png":  ImageMediaTypePNG,
	"gif":  ImageMediaTypeGIF,
	"webp": ImageMediaTypeWebP,
}

func (t ImageMediaType) String() string { return string(t) }

// ParseImageMediaType validates a MIME string.
func ParseImageMediaType(value string) (ImageMediaType, error) {
	switch ImageMediaType(value) {
	case ImageMediaTypeJPEG, ImageMediaTypePNG, ImageMediaTypeGIF, ImageMediaTypeWebP:
		return ImageMediaType(value), nil
	default:
		return "", newValidationError("media_type", value, "unsupported image media type %q", value)
	}
}

func (t *ImageMediaType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("media_type: %w", err)
	}
	parsed, err := ParseImageMediaType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ImageMediaTypeFromPath maps a lowercase file extension to its media type.
// Extensions match exactly, so "photo.PNG" is not supported.
func ImageMediaTypeFromPath(path string) (ImageMediaType, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", &ImageMediaTypeParseError{Path: path, Err: ErrExtensionNotFound}
	}
	mediaType, ok := extensionMediaTypes[ext]
	if !ok {
		return "", &ImageMediaTypeParseError{Path: path, Extension: ext, Err: ErrMediaTypeNotSupported}
	}
	return mediaType, nil
}

// ImageContentSource is an encoded image. Build it with NewBase64ImageSource.
type ImageContentSource struct {
	sourceType ImageSourceType
	mediaType  ImageMediaType
	data       string
}

type imageContentSourceJSON struct {
	Type      ImageSourceType `json:"type"`
	MediaType ImageMediaType  `json:"media_type"`
	Data      string          `json:"data"`
}

// NewBase64ImageSource builds a source from already base64-encoded data.
func NewBase64ImageSource(mediaType ImageMediaType, data string) ImageContentSource {
	if mediaType == "" {
		mediaType = DefaultImageMediaType
	}
	return ImageContentSource{sourceType: ImageSourceTypeBase64, mediaType: mediaType, data: data}
}

func (s ImageContentSource) Type() ImageSourceType {
	if s.sourceType == "" {
		return ImageSourceTypeBase64
	}
	return s.sourceType
}

func (s ImageContentSource) MediaType() ImageMediaType {
	if s.mediaType == "" {
		return DefaultImageMediaType
	}
	return s.mediaType
}

func (s ImageContentSource) Data() string { return s.data }

func (s ImageContentSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(imageContentSourceJSON{
		Type:      s.Type(),
		MediaType: s.MediaType(),
		Data:      s.data,
	})
}

func (s *ImageContentSource) UnmarshalJSON(data []byte) error {
	var raw imageContentSourceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("image source: %w", err)
	}
	if raw.Type != ImageSourceTypeBase64 {
		return newValidationError("source.type", raw.Type, "unsupported image source type %q", raw.Type)
	}
	*s = NewBase64ImageSource(raw.MediaType, raw.Data)
	return nil
}

func (s ImageContentSource) String() string { return prettyJSON(s) }

// Package imageprep turns image files into base64 image sources, optionally
// downscaling them so the longest side fits a limit.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the webp decoder

	"github.com/clustgo/clust/internal/encode"
	"github.com/clustgo/clust/internal/messages"
)

const jpegQuality = 85

// Options controls preparation. MaxDimension 0 sends the file unchanged.
type Options struct {
	MaxDimension int
}

// Load reads path and returns an image source whose media type follows the extension.
// Downscaled webp images are re-encoded as png.
func Load(path string, opts Options) (messages.ImageContentSource, error) {
	mediaType, err := messages.ImageMediaTypeFromPath(path)
	if err != nil {
		return messages.ImageContentSource{}, err
	}
	if opts.MaxDimension == 0 {
		return streamFile(path, mediaType)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- image path is user-provided
	if err != nil {
		return messages.ImageContentSource{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return FromBytes(data, mediaType, opts)
}

func streamFile(path string, mediaType messages.ImageMediaType) (messages.ImageContentSource, error) {
	f, err := os.Open(path) // #nosec G304 -- image path is user-provided
	if err != nil {
		return messages.ImageContentSource{}, fmt.Errorf("read image %s: %w", path, err)
	}
	defer f.Close() // nolint:errcheck // read-only

	data, err := encode.EncodeReader(f)
	if err != nil {
		return messages.ImageContentSource{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return messages.NewBase64ImageSource(mediaType, data), nil
}

// FromBytes prepares already-read image data.
func FromBytes(data []byte, mediaType messages.ImageMediaType, opts Options) (messages.ImageContentSource, error) {
	if opts.MaxDimension < 0 {
		return messages.ImageContentSource{}, errors.New("max dimension must not be negative")
	}
	if opts.MaxDimension > 0 {
		resized, resizedType, err := downscale(data, mediaType, opts.MaxDimension)
		if err != nil {
			return messages.ImageContentSource{}, err
		}
		data, mediaType = resized, resizedType
	}
	return messages.NewBase64ImageSource(mediaType, encode.EncodeBase64String(data)), nil
}

// downscale returns data unchanged when it already fits maxDimension. Only the
// header is decoded in that case.
func downscale(data []byte, mediaType messages.ImageMediaType, maxDimension int) ([]byte, messages.ImageMediaType, error) {
	width, height, err := Dimensions(data)
	if err != nil {
		return nil, "", err
	}
	if width <= 0 || height <= 0 {
		return nil, "", errors.New("invalid image dimensions")
	}
	if max(width, height) <= maxDimension {
		return data, mediaType, nil
	}

	srcImg, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	bounds := srcImg.Bounds()

	scale := float64(maxDimension) / float64(max(width, height))
	newW := max(int(float64(width)*scale), 1)
	newH := max(int(float64(height)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), srcImg, bounds, draw.Over, nil)

	var buf bytes.Buffer
	outType, err := encodeImage(&buf, dst, mediaType)
	if err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), outType, nil
}

func encodeImage(w io.Writer, img image.Image, mediaType messages.ImageMediaType) (messages.ImageMediaType, error) {
	switch mediaType {
	case messages.ImageMediaTypeJPEG:
		return mediaType, jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case messages.ImageMediaTypeGIF:
		return mediaType, gif.Encode(w, img, nil)
	case messages.ImageMediaTypePNG, messages.ImageMediaTypeWebP:
		return messages.ImageMediaTypePNG, png.Encode(w, img)
	default:
		return "", fmt.Errorf("unsupported media type: %s", mediaType)
	}
}

// Dimensions decodes only the image header.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

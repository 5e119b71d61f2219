// Package encode holds the base64 helpers used for image payloads.
package encode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
)

func DecodeBase64String(value string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(value)
}

func EncodeBase64String(value []byte) string {
	return base64.StdEncoding.EncodeToString(value)
}

// EncodeReader base64-encodes everything read from r.
func EncodeReader(r io.Reader) (string, error) {
	var buf bytes.Buffer
	encoder := base64.NewEncoder(base64.StdEncoding, &buf)
	if _, err := io.Copy(encoder, r); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return buf.String(), nil
}

// DecodedSize returns the byte length of a valid base64 payload.
func DecodedSize(value string) (int, error) {
	decoded, err := DecodeBase64String(value)
	if err != nil {
		return 0, err
	}
	return len(decoded), nil
}

package encode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBase64RoundTrip(t *testing.T) {
	original := []byte("hello")
	encoded := EncodeBase64String(original)
	decoded, err := DecodeBase64String(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestEncodeReaderMatchesEncodeString(t *testing.T) {
	payload := strings.Repeat("image-bytes", 1000)
	streamed, err := EncodeReader(strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, EncodeBase64String([]byte(payload)), streamed)
}

func TestDecodedSize(t *testing.T) {
	size, err := DecodedSize(EncodeBase64String([]byte("12345")))
	require.NoError(t, err)
	require.Equal(t, 5, size)

	_, err = DecodedSize("not base64!")
	require.Error(t, err)
}

package client

import (
	"errors"
	"os"
	"strings"
)

// APIKeyEnv is the environment variable read by FromEnv.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// ErrAPIKeyNotSet is returned when no API key can be resolved.
var ErrAPIKeyNotSet = errors.New("api key is not set")

// APIKey authenticates requests. String never reveals the full key.
type APIKey struct {
	value string
}

func NewAPIKey(value string) APIKey {
	return APIKey{value: strings.TrimSpace(value)}
}

// APIKeyFromEnv reads ANTHROPIC_API_KEY.
func APIKeyFromEnv() (APIKey, error) {
	key := NewAPIKey(os.Getenv(APIKeyEnv))
	if key.IsZero() {
		return APIKey{}, ErrAPIKeyNotSet
	}
	return key, nil
}

func (k APIKey) Value() string { return k.value }

func (k APIKey) IsZero() bool { return k.value == "" }

// String returns a masked form suitable for logs.
func (k APIKey) String() string {
	if len(k.value) <= 8 {
		return "***"
	}
	return k.value[:4] + "…" + k.value[len(k.value)-3:]
}

// GoString keeps %#v from printing the key.
func (k APIKey) GoString() string { return "client.APIKey(" + k.String() + ")" }

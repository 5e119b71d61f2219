package client

import "fmt"

// Version is the anthropic-version header value.
type Version string

const (
	Version20230101 Version = "2023-01-01"
	Version20230601 Version = "2023-06-01"
)

// DefaultVersion is the newest supported API version.
const DefaultVersion = Version20230601

func ParseVersion(value string) (Version, error) {
	switch Version(value) {
	case Version20230101, Version20230601:
		return Version(value), nil
	case "":
		return DefaultVersion, nil
	default:
		return "", fmt.Errorf("unsupported api version %q", value)
	}
}

func (v Version) String() string { return string(v) }

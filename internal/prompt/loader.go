// Package prompt reads markdown prompt files: optional YAML frontmatter
// carrying request fields, followed by the user message body.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const maxLineBytes = 1 << 20

// Config is the frontmatter of a prompt file. Unset fields fall back to CLI defaults.
type Config struct {
	Model         string   `yaml:"model,omitempty"`
	MaxTokens     int      `yaml:"max_tokens,omitempty"`
	System        string   `yaml:"system,omitempty"`
	Temperature   *float64 `yaml:"temperature,omitempty"`
	TopP          *float64 `yaml:"top_p,omitempty"`
	TopK          *int     `yaml:"top_k,omitempty"`
	StopSequences []string `yaml:"stop_sequences,omitempty"`
	UserID        string   `yaml:"user_id,omitempty"`
	Images        []string `yaml:"images,omitempty"`
}

// Prompt is a parsed prompt file.
type Prompt struct {
	Config Config
	Body   string
	Source string
}

// LoadFile reads and parses a prompt file.
func LoadFile(path string) (*Prompt, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- prompt path is user-provided
	if err != nil {
		return nil, fmt.Errorf("read prompt %s: %w", path, err)
	}
	return Load(path, data)
}

// Load parses prompt bytes. source names the origin in errors and anchors relative image paths.
func Load(source string, data []byte) (*Prompt, error) {
	config, body, err := parseFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", source, err)
	}
	body = strings.TrimSpace(body)
	if body == "" && len(config.Images) == 0 {
		return nil, fmt.Errorf("prompt %s has no message body or images", source)
	}
	return &Prompt{Config: config, Body: body, Source: source}, nil
}

// ImagePaths returns image paths resolved against the prompt file's directory.
func (p *Prompt) ImagePaths() []string {
	base := "."
	if p.Source != "" {
		base = filepath.Dir(p.Source)
	}
	paths := make([]string, 0, len(p.Config.Images))
	for _, image := range p.Config.Images {
		if filepath.IsAbs(image) {
			paths = append(paths, image)
			continue
		}
		paths = append(paths, filepath.Join(base, image))
	}
	return paths
}

func parseFrontmatter(data []byte) (Config, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Config{}, "", fmt.Errorf("empty prompt")
	}

	lines := bufio.NewScanner(bytes.NewReader(trimmed))
	lines.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lines.Split(bufio.ScanLines)

	var (
		frontmatter []string
		body        []string
		inFront     bool
		headerSeen  bool
		first       = true
	)

	for lines.Scan() {
		line := lines.Text()
		switch {
		case first && strings.TrimSpace(line) == "---":
			headerSeen = true
			inFront = true
		case inFront && strings.TrimSpace(line) == "---":
			inFront = false
		case inFront:
			frontmatter = append(frontmatter, line)
		default:
			body = append(body, line)
		}
		first = false
	}
	if err := lines.Err(); err != nil {
		return Config{}, "", err
	}
	if inFront {
		return Config{}, "", fmt.Errorf("unterminated frontmatter")
	}

	var cfg Config
	if headerSeen {
		decoder := yaml.NewDecoder(strings.NewReader(strings.Join(frontmatter, "\n")))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, "", fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	return cfg, strings.Join(body, "\n"), nil
}

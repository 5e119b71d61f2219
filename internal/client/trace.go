package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Exchange is one traced request and its outcome. Headers are never recorded,
// so the API key cannot reach a trace file.
type Exchange struct {
	Timestamp   time.Time       `json:"timestamp"`
	RequestID   string          `json:"request_id"`
	Endpoint    string          `json:"endpoint"`
	Method      string          `json:"method"`
	Model       string          `json:"model,omitempty"`
	RequestBody json.RawMessage `json:"request_body,omitempty"`
	StatusCode  int             `json:"status_code,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Error       string          `json:"error,omitempty"`
	DurationMs  int64           `json:"duration_ms"`
}

// Tracer appends exchanges to an NDJSON file. A nil *Tracer records nothing,
// so clients built without WithTracer skip tracing entirely.
type Tracer struct {
	path string

	mu     sync.Mutex
	file   *os.File
	enc    *json.Encoder
	closed bool
}

// OpenTracer opens path for appending, creating it owner-readable only.
func OpenTracer(path string) (*Tracer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 -- trace path is user-provided
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	return &Tracer{path: path, file: f, enc: json.NewEncoder(f)}, nil
}

// WithTracer records every request made by the client to t.
func WithTracer(t *Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

func (t *Tracer) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Record writes one line. Encoding and write errors are dropped.
func (t *Tracer) Record(ex Exchange) {
	if t == nil {
		return
	}
	if ex.Timestamp.IsZero() {
		ex.Timestamp = time.Now().UTC()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	_ = t.enc.Encode(ex)
}

// Close closes the file. Later Record calls are no-ops.
func (t *Tracer) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.file.Close()
}

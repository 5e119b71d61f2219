package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clustgo/clust/internal/messages"
)

const okResponse = `{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"Hi!"}],"model":"claude-3-sonnet-20240229","stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":3}}`

func helloRequest(t *testing.T) messages.MessagesRequestBody {
	t.Helper()
	body, err := messages.NewRequestBuilder(messages.Claude3Sonnet20240229).
		Messages(messages.NewUserMessage(messages.NewTextContent("Hello"))).
		Build()
	require.NoError(t, err)
	return body
}

func newTestClient(server *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithBaseURL(server.URL)}, opts...)
	return New(NewAPIKey("sk-test-key-123456"), DefaultVersion, server.Client(), opts...)
}

func TestCreateAMessageSendsRequestAndParsesResponse(t *testing.T) {
	var (
		gotPath    string
		gotMethod  string
		gotHeaders http.Header
		gotBody    map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okResponse))
	}))
	defer server.Close()

	resp, err := newTestClient(server).CreateAMessage(context.Background(), helloRequest(t))
	require.NoError(t, err)

	require.Equal(t, "/v1/messages", gotPath)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "sk-test-key-123456", gotHeaders.Get("x-api-key"))
	require.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	require.Equal(t, "application/json", gotHeaders.Get("content-type"))
	require.Equal(t, "claude-3-sonnet-20240229", gotBody["model"])
	require.EqualValues(t, 4096, gotBody["max_tokens"])
	_, hasStream := gotBody["stream"]
	require.False(t, hasStream)

	require.NotNil(t, resp)
	assert.Equal(t, "msg_1", resp.ID)
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "Hi!", text)
	assert.Equal(t, 13, resp.Usage.Total())
}

func TestCreateAMessageRejectsStream(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	body := helloRequest(t)
	body.Stream = messages.ReturnStream

	_, err := newTestClient(server).CreateAMessage(context.Background(), body)
	require.ErrorIs(t, err, messages.ErrStreamOptionMismatch)
	assert.True(t, messages.IsKind(err, messages.KindInvalidRequest))
	assert.Zero(t, calls)
}

func TestCreateAMessageRequiresAPIKey(t *testing.T) {
	c := New(APIKey{}, DefaultVersion, nil)
	_, err := c.CreateAMessage(context.Background(), helloRequest(t))
	require.ErrorIs(t, err, ErrAPIKeyNotSet)
}

func TestCreateAMessageAPIError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorType messages.APIErrorType
	}{
		{name: "invalid request", status: http.StatusBadRequest, errorType: messages.APIErrorInvalidRequest},
		{name: "authentication", status: http.StatusUnauthorized, errorType: messages.APIErrorAuthentication},
		{name: "permission", status: http.StatusForbidden, errorType: messages.APIErrorPermission},
		{name: "not found", status: http.StatusNotFound, errorType: messages.APIErrorNotFound},
		{name: "rate limit", status: http.StatusTooManyRequests, errorType: messages.APIErrorRateLimit},
		{name: "api", status: http.StatusInternalServerError, errorType: messages.APIErrorAPI},
		{name: "overloaded", status: 529, errorType: messages.APIErrorOverloaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"` + string(tt.errorType) + `","message":"boom"}}`))
			}))
			defer server.Close()

			_, err := newTestClient(server).CreateAMessage(context.Background(), helloRequest(t))
			require.Error(t, err)

			var msgErr *messages.MessagesError
			require.ErrorAs(t, err, &msgErr)
			assert.Equal(t, messages.KindAPI, msgErr.Kind)
			assert.Equal(t, tt.status, msgErr.StatusCode)
			require.NotNil(t, msgErr.API)
			assert.Equal(t, tt.errorType, msgErr.API.Type)
			assert.Equal(t, "boom", msgErr.API.Message)
		})
	}
}

func TestCreateAMessageErrorEnvelopeOn2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).CreateAMessage(context.Background(), helloRequest(t))
	errType, ok := messages.APIErrorTypeOf(err)
	require.True(t, ok)
	assert.Equal(t, messages.APIErrorOverloaded, errType)
}

func TestCreateAMessageNon2xxWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	_, err := newTestClient(server).CreateAMessage(context.Background(), helloRequest(t))
	require.Error(t, err)
	assert.True(t, messages.IsKind(err, messages.KindStatus))
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestCreateAMessageDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg_1","content":42}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).CreateAMessage(context.Background(), helloRequest(t))
	assert.True(t, messages.IsKind(err, messages.KindDecode))
}

func TestCreateAMessageTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(NewAPIKey("sk-test-key-123456"), DefaultVersion, nil, WithBaseURL(url))
	_, err := c.CreateAMessage(context.Background(), helloRequest(t))
	assert.True(t, messages.IsKind(err, messages.KindTransport))
}

func TestCreateAMessageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestClient(server, WithTimeout(50*time.Millisecond)).CreateAMessage(context.Background(), helloRequest(t))
	require.Error(t, err)
	assert.True(t, messages.IsKind(err, messages.KindTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCreateAMessageConcurrentUse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okResponse))
	}))
	defer server.Close()

	c := newTestClient(server)
	body := helloRequest(t)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CreateAMessage(context.Background(), body)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestCreateAMessageWritesTrace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okResponse))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tracer, err := OpenTracer(path)
	require.NoError(t, err)
	assert.Equal(t, path, tracer.Path())

	traced := newTestClient(server, WithTracer(tracer))
	_, err = traced.CreateAMessage(context.Background(), helloRequest(t))
	require.NoError(t, err)
	_, err = newTestClient(server).CreateAMessage(context.Background(), helloRequest(t))
	require.NoError(t, err)

	require.NoError(t, tracer.Close())
	require.NoError(t, tracer.Close())
	_, err = traced.CreateAMessage(context.Background(), helloRequest(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry Exchange
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, 200, entry.StatusCode)
	assert.NotEmpty(t, entry.RequestID)
	assert.False(t, entry.Timestamp.IsZero())
	assert.NotContains(t, string(data), "sk-test-key-123456")
}

func TestNilTracerIsNoop(t *testing.T) {
	var tracer *Tracer
	tracer.Record(Exchange{Method: http.MethodPost})
	assert.NoError(t, tracer.Close())
	assert.Empty(t, tracer.Path())
}

func TestAPIKeyMasking(t *testing.T) {
	key := NewAPIKey("  sk-ant-abcdefghijklmnop  ")
	assert.Equal(t, "sk-ant-abcdefghijklmnop", key.Value())
	assert.Equal(t, "sk-a…nop", key.String())
	assert.Equal(t, "***", NewAPIKey("short").String())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	_, err := FromEnv()
	require.ErrorIs(t, err, ErrAPIKeyNotSet)

	t.Setenv(APIKeyEnv, "sk-env-0123456789")
	c, err := FromEnv(WithBaseURL("https://example.test/"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env-0123456789", c.APIKey().Value())
	assert.Equal(t, DefaultVersion, c.Version())
	assert.Equal(t, "https://example.test", c.BaseURL())
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("2023-01-01")
	require.NoError(t, err)
	assert.Equal(t, Version20230101, v)

	v, err = ParseVersion("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, v)

	_, err = ParseVersion("2099-01-01")
	assert.Error(t, err)
}

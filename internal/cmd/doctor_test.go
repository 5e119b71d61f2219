package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorOffline(t *testing.T) {
	isolateConfig(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-doctor-test-1234")

	_, err := executeCommand(t, "", "doctor")
	assert.NoError(t, err)
}

func TestDoctorInvalidConfig(t *testing.T) {
	isolateConfig(t)
	cfg := writeConfig(t, "defaults:\n  model: claude-9\n")

	_, err := executeCommand(t, "", "--config", cfg, "doctor")
	require.Error(t, err)
	assert.Equal(t, ExitConfigInvalid, ExitCodeFor(err))
}

func TestDoctorLive(t *testing.T) {
	isolateConfig(t)
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_ping","type":"message","role":"assistant","content":[{"type":"text","text":"p"}],"model":"claude-3-sonnet-20240229","stop_reason":"max_tokens","stop_sequence":null,"usage":{"input_tokens":8,"output_tokens":1}}`))
	}))
	defer server.Close()
	t.Setenv("CLUST_API_KEY", "sk-doctor-test-1234")
	t.Setenv("CLUST_API_BASE_URL", server.URL)

	_, err := executeCommand(t, "", "doctor", "--live")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got["max_tokens"])
	assert.Equal(t, "claude-3-sonnet-20240229", got["model"])
}

func TestDoctorLiveFailure(t *testing.T) {
	isolateConfig(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()
	t.Setenv("CLUST_API_KEY", "sk-doctor-wrong-0000")
	t.Setenv("CLUST_API_BASE_URL", server.URL)

	_, err := executeCommand(t, "", "doctor", "--live")
	require.Error(t, err)
	assert.Equal(t, ExitNoPerm, ExitCodeFor(err))
}

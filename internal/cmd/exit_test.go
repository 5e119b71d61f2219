package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clustgo/clust/internal/client"
	"github.com/clustgo/clust/internal/messages"
)

func TestExitCodeFor(t *testing.T) {
	apiErr := func(errorType messages.APIErrorType) error {
		return &messages.MessagesError{
			Kind:       messages.KindAPI,
			StatusCode: errorType.StatusCode(),
			API:        &messages.APIError{Type: errorType, Message: "boom"},
		}
	}
	_, validation := messages.NewTemperature(2)
	_, mediaErr := messages.ImageMediaTypeFromPath("scan.bmp")
	_, decodeErr := messages.DecodeFunctionCalls("<function_calls><invoke>")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"config load", fmt.Errorf("%w: %w", errConfigLoad, errors.New("bad yaml")), ExitConfigInvalid},
		{"missing key", fmt.Errorf("%w: set it", client.ErrAPIKeyNotSet), ExitConfigInvalid},
		{"missing key from client", &messages.MessagesError{Kind: messages.KindInvalidRequest, Err: client.ErrAPIKeyNotSet}, ExitConfigInvalid},
		{"invalid request", &messages.MessagesError{Kind: messages.KindInvalidRequest, Err: messages.ErrStreamOptionMismatch}, ExitUsage},
		{"authentication", apiErr(messages.APIErrorAuthentication), ExitNoPerm},
		{"permission", apiErr(messages.APIErrorPermission), ExitNoPerm},
		{"api invalid request", apiErr(messages.APIErrorInvalidRequest), ExitDataErr},
		{"not found", apiErr(messages.APIErrorNotFound), ExitDataErr},
		{"rate limit", apiErr(messages.APIErrorRateLimit), ExitTempFail},
		{"overloaded", apiErr(messages.APIErrorOverloaded), ExitTempFail},
		{"api error", apiErr(messages.APIErrorAPI), ExitTempFail},
		{"unknown api error type", apiErr(messages.APIErrorType("billing_error")), ExitUnavailable},
		{"status 401", &messages.MessagesError{Kind: messages.KindStatus, StatusCode: 401}, ExitNoPerm},
		{"status 503", &messages.MessagesError{Kind: messages.KindStatus, StatusCode: 503}, ExitTempFail},
		{"status 404", &messages.MessagesError{Kind: messages.KindStatus, StatusCode: 404}, ExitUnavailable},
		{"transport", &messages.MessagesError{Kind: messages.KindTransport, Err: errors.New("connection refused")}, ExitUnavailable},
		{"transport timeout", &messages.MessagesError{Kind: messages.KindTransport, Err: context.DeadlineExceeded}, ExitTempFail},
		{"decode", &messages.MessagesError{Kind: messages.KindDecode, Err: errors.New("bad json")}, ExitSoftware},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ExitTempFail},
		{"validation", validation, ExitUsage},
		{"media type", mediaErr, ExitUsage},
		{"no function calls", messages.ErrXMLNotFound, ExitDataErr},
		{"function calls decode", decodeErr, ExitDataErr},
		{"missing file", fmt.Errorf("read prompt: %w", fs.ErrNotExist), ExitNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestExitCodeNamesCoverCodes(t *testing.T) {
	for _, code := range []int{ExitSuccess, ExitFailure, ExitUsage, ExitDataErr, ExitNoInput, ExitUnavailable, ExitSoftware, ExitTempFail, ExitNoPerm, ExitConfigInvalid} {
		assert.NotEmpty(t, exitCodeNames[code], "exit code %d", code)
	}
}

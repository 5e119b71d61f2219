package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clustgo/clust/internal/messages"
)

const messagesPath = "/v1/messages"

// CreateAMessage sends one non-streaming create-message request.
// Every failure is a *messages.MessagesError.
func (c *Client) CreateAMessage(ctx context.Context, body messages.MessagesRequestBody) (*messages.MessagesResponseBody, error) {
	if c == nil {
		return nil, &messages.MessagesError{Kind: messages.KindInvalidRequest, Err: errors.New("client not configured")}
	}
	if body.Stream != messages.ReturnOnce {
		return nil, &messages.MessagesError{Kind: messages.KindInvalidRequest, Err: messages.ErrStreamOptionMismatch}
	}
	if c.apiKey.IsZero() {
		return nil, &messages.MessagesError{Kind: messages.KindInvalidRequest, Err: ErrAPIKeyNotSet}
	}
	if err := body.Validate(); err != nil {
		return nil, &messages.MessagesError{Kind: messages.KindInvalidRequest, Err: err}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &messages.MessagesError{Kind: messages.KindEncode, Err: fmt.Errorf("encode request: %w", err)}
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	if cancel != nil {
		defer cancel()
	}

	requestID := uuid.NewString()
	url := c.endpoint(messagesPath)
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("model", body.Model.String()),
	)

	req, err := c.newPost(ctx, url, payload)
	if err != nil {
		return nil, &messages.MessagesError{Kind: messages.KindEncode, Err: err}
	}

	logger.Debug("Sending messages request", zap.String("endpoint", url), zap.Int("messages", len(body.Messages)))
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.tracer.Record(Exchange{
			RequestID:   requestID,
			Endpoint:    url,
			Method:      http.MethodPost,
			Model:       body.Model.String(),
			RequestBody: payload,
			Error:       err.Error(),
			DurationMs:  duration.Milliseconds(),
		})
		logger.Warn("Messages request failed", zap.Error(err), zap.Duration("duration", duration))
		return nil, &messages.MessagesError{Kind: messages.KindTransport, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &messages.MessagesError{Kind: messages.KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.tracer.Record(Exchange{
		RequestID:   requestID,
		Endpoint:    url,
		Method:      http.MethodPost,
		Model:       body.Model.String(),
		RequestBody: payload,
		StatusCode:  resp.StatusCode,
		Response:    traceable(respBody),
		DurationMs:  duration.Milliseconds(),
	})
	logger.Debug("Received messages response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
		zap.String("api_request_id", resp.Header.Get("request-id")),
	)

	if apiErr, ok := decodeAPIError(respBody); ok {
		logger.Warn("Messages API returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("error_type", string(apiErr.Type)),
		)
		return nil, &messages.MessagesError{Kind: messages.KindAPI, StatusCode: resp.StatusCode, API: apiErr, Body: respBody}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warn("Messages request returned non-2xx status", zap.Int("status", resp.StatusCode))
		return nil, &messages.MessagesError{Kind: messages.KindStatus, StatusCode: resp.StatusCode, Body: respBody}
	}

	var parsed messages.MessagesResponseBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &messages.MessagesError{Kind: messages.KindDecode, StatusCode: resp.StatusCode, Body: respBody, Err: fmt.Errorf("decode response: %w", err)}
	}

	logger.Debug("Decoded messages response",
		zap.String("message_id", parsed.ID),
		zap.Int("input_tokens", parsed.Usage.InputTokens),
		zap.Int("output_tokens", parsed.Usage.OutputTokens),
	)
	return &parsed, nil
}

// decodeAPIError recognizes the {"type":"error","error":{...}} envelope.
func decodeAPIError(body []byte) (*messages.APIError, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var envelope messages.ErrorResponseBody
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, false
	}
	if envelope.Type != "error" || envelope.Error.Type == "" {
		return nil, false
	}
	return &envelope.Error, true
}

// traceable returns body as JSON, quoting it when it is not valid JSON.
func traceable(body []byte) json.RawMessage {
	if json.Valid(body) {
		return body
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return quoted
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/clustgo/clust/internal/client"
	"github.com/clustgo/clust/internal/messages"
)

// Exit codes follow sysexits(3) where one fits.
const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitUsage         = 64
	ExitDataErr       = 65
	ExitNoInput       = 66
	ExitUnavailable   = 69
	ExitSoftware      = 70
	ExitTempFail      = 75
	ExitNoPerm        = 77
	ExitConfigInvalid = 78
)

var exitCodeNames = map[int]string{
	ExitSuccess:       "success",
	ExitFailure:       "failure",
	ExitUsage:         "usage",
	ExitDataErr:       "data_error",
	ExitNoInput:       "no_input",
	ExitUnavailable:   "unavailable",
	ExitSoftware:      "software",
	ExitTempFail:      "temporary_failure",
	ExitNoPerm:        "permission_denied",
	ExitConfigInvalid: "config_invalid",
}

var errConfigLoad = errors.New("load config")

// ExitCodeFor maps an error returned by a command to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		msgErr     *messages.MessagesError
		validation *messages.ValidationError
		decodeErr  *messages.FunctionCallsDecodeError
		mediaErr   *messages.ImageMediaTypeParseError
	)
	switch {
	case errors.Is(err, errConfigLoad), errors.Is(err, client.ErrAPIKeyNotSet):
		return ExitConfigInvalid
	case errors.As(err, &msgErr):
		return exitCodeForMessagesError(msgErr)
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTempFail
	case errors.As(err, &validation), errors.As(err, &mediaErr):
		return ExitUsage
	case errors.Is(err, messages.ErrXMLNotFound), errors.As(err, &decodeErr):
		return ExitDataErr
	case errors.Is(err, fs.ErrNotExist):
		return ExitNoInput
	default:
		return ExitFailure
	}
}

func exitCodeForMessagesError(err *messages.MessagesError) int {
	switch err.Kind {
	case messages.KindInvalidRequest:
		if errors.Is(err, client.ErrAPIKeyNotSet) {
			return ExitConfigInvalid
		}
		return ExitUsage
	case messages.KindAPI:
		if err.API == nil {
			return ExitUnavailable
		}
		switch errType := err.API.Type; {
		case errType.Retryable():
			return ExitTempFail
		case errType == messages.APIErrorAuthentication, errType == messages.APIErrorPermission:
			return ExitNoPerm
		case errType == messages.APIErrorInvalidRequest, errType == messages.APIErrorNotFound:
			return ExitDataErr
		default:
			return ExitUnavailable
		}
	case messages.KindStatus:
		switch {
		case err.StatusCode == 401 || err.StatusCode == 403:
			return ExitNoPerm
		case err.StatusCode == 429 || err.StatusCode >= 500:
			return ExitTempFail
		default:
			return ExitUnavailable
		}
	case messages.KindTransport:
		if errors.Is(err, context.DeadlineExceeded) {
			return ExitTempFail
		}
		return ExitUnavailable
	case messages.KindDecode, messages.KindEncode:
		return ExitSoftware
	default:
		return ExitFailure
	}
}

// ExitWithCode logs msg and err with exit code metadata, then exits.
// A nil logger falls back to stderr.
func ExitWithCode(logger *zap.Logger, exitCode int, msg string, err error) {
	if logger != nil {
		logger.Error(msg,
			zap.Int("exit_code", exitCode),
			zap.String("exit_name", exitCodeNames[exitCode]),
			zap.Error(err),
		)
		_ = logger.Sync()
		os.Exit(exitCode)
	}
	ExitWithCodeStderr(exitCode, msg, err)
}

// ExitWithCodeStderr writes to stderr without a logger. Use it before logger initialization.
func ExitWithCodeStderr(exitCode int, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}
	if name, ok := exitCodeNames[exitCode]; ok {
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s)\n", exitCode, name)
	}
	os.Exit(exitCode)
}

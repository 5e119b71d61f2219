package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type outputSink struct {
	writer io.Writer
	close  func() error
	path   string
}

// openSink opens path for writing, creating parent directories. Empty or "-"
// writes to the command's stdout.
func openSink(cmd *cobra.Command, path string) (*outputSink, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return &outputSink{writer: cmd.OutOrStdout(), close: func() error { return nil }, path: "-"}, nil
	}

	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(trimmed) // #nosec G304 -- output path is user-provided
	if err != nil {
		return nil, err
	}
	return &outputSink{writer: file, close: file.Close, path: trimmed}, nil
}

// writeRendered writes each rendered section to the sink on its own line.
func writeRendered(cmd *cobra.Command, path string, sections ...string) (err error) {
	sink, err := openSink(cmd, path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sink.close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", sink.path, closeErr)
		}
	}()

	for _, section := range sections {
		if _, err := fmt.Fprintln(sink.writer, section); err != nil {
			return err
		}
	}
	return nil
}

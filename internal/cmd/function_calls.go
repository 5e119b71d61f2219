package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/clustgo/clust/internal/messages"
	"github.com/clustgo/clust/internal/output"
)

var (
	functionCallsOutput string
	functionCallsOut    string
)

var functionCallsCmd = &cobra.Command{
	Use:   "function-calls [file]",
	Short: "Decode a <function_calls> block from text",
	Long: `Find the first <function_calls>...</function_calls> span in the input and
print the decoded tool invocation. Reads stdin when no file is given or the
file is "-". No API call is made.`,
	Example: `  clust function-calls reply.txt
  pbpaste | clust function-calls -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(functionCallsOutput)
		if err != nil {
			return err
		}

		source := "-"
		if len(args) == 1 {
			source = args[0]
		}
		text, err := readSource(cmd.InOrStdin(), source)
		if err != nil {
			return err
		}

		calls, err := messages.NewTextContent(text).ExcludeFunctionCalls()
		if err != nil {
			return err
		}

		rendered, err := output.NewFormatter(format).FormatFunctionCalls(calls)
		if err != nil {
			return err
		}
		return writeRendered(cmd, functionCallsOut, rendered)
	},
}

func init() {
	rootCmd.AddCommand(functionCallsCmd)
	functionCallsCmd.Flags().StringVarP(&functionCallsOutput, "output", "o", "table", "output format: table, json, markdown, yaml, text")
	functionCallsCmd.Flags().StringVar(&functionCallsOut, "out", "", "write output to a file instead of stdout")
}

// readSource reads a file, or stdin when source is "-".
func readSource(stdin io.Reader, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(data), nil
}

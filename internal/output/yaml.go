package output

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clustgo/clust/internal/messages"
)

// YAMLFormatter renders results as YAML documents.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatResponse(resp *messages.MessagesResponseBody) (string, error) {
	if resp == nil {
		return "", nil
	}
	return marshalYAML(newResponseView(resp))
}

func (f *YAMLFormatter) FormatFunctionCalls(calls messages.FunctionCalls) (string, error) {
	return marshalYAML(calls)
}

func marshalYAML(value any) (string, error) {
	var sb strings.Builder
	encoder := yaml.NewEncoder(&sb)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

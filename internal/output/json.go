package output

import (
	"encoding/json"

	"github.com/clustgo/clust/internal/messages"
)

// JSONFormatter renders values in their wire JSON form.
type JSONFormatter struct {
	Indent bool
}

// FormatResponse renders the response body as JSON.
func (f *JSONFormatter) FormatResponse(resp *messages.MessagesResponseBody) (string, error) {
	if resp == nil {
		return "", nil
	}
	return f.marshal(resp)
}

// FormatFunctionCalls renders decoded function calls as JSON.
func (f *JSONFormatter) FormatFunctionCalls(calls messages.FunctionCalls) (string, error) {
	return f.marshal(calls)
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

package messages

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
)

const (
	functionCallsTag = "function_calls"
	invokeTag        = "invoke"
	toolNameTag      = "tool_name"
	parametersTag    = "parameters"

	functionCallsStart = "<" + functionCallsTag + ">"
	functionCallsEnd   = "</" + functionCallsTag + ">"
)

// Invoke names a tool and its string parameters.
type Invoke struct {
	ToolName   string            `json:"tool_name" yaml:"tool_name"`
	Parameters map[string]string `json:"parameters" yaml:"parameters"`
}

// FunctionCalls is a decoded function_calls document.
type FunctionCalls struct {
	Invoke Invoke `json:"invoke" yaml:"invoke"`
}

// Equal compares tool names and parameter maps.
func (f FunctionCalls) Equal(other FunctionCalls) bool {
	return f.Invoke.ToolName == other.Invoke.ToolName &&
		maps.Equal(f.Invoke.Parameters, other.Invoke.Parameters)
}

// ExtractFunctionCalls returns the first <function_calls>...</function_calls> span of text,
// delimiters included. The end tag is the first one after the start tag; nesting and
// comments are not considered.
func ExtractFunctionCalls(text string) (string, bool) {
	start := strings.Index(text, functionCallsStart)
	if start < 0 {
		return "", false
	}
	bodyStart := start + len(functionCallsStart)
	end := strings.Index(text[bodyStart:], functionCallsEnd)
	if end < 0 {
		return "", false
	}
	return text[start : bodyStart+end+len(functionCallsEnd)], true
}

// DecodeFunctionCalls parses a function_calls document. Leaf values are trimmed;
// when a parameter name repeats, the first value is kept.
func DecodeFunctionCalls(document string) (FunctionCalls, error) {
	decoder := xml.NewDecoder(strings.NewReader(document))
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity

	root, err := nextStart(decoder)
	if err != nil {
		return FunctionCalls{}, &FunctionCallsDecodeError{Err: err}
	}
	if root.Name.Local != functionCallsTag {
		return FunctionCalls{}, &FunctionCallsDecodeError{
			Err: fmt.Errorf("root element is <%s>, want <%s>", root.Name.Local, functionCallsTag),
		}
	}

	var (
		calls     FunctionCalls
		hasInvoke bool
	)
	err = walkChildren(decoder, func(child xml.StartElement) error {
		if child.Name.Local != invokeTag || hasInvoke {
			return decoder.Skip()
		}
		hasInvoke = true
		invoke, err := decodeInvoke(decoder)
		if err != nil {
			return err
		}
		calls.Invoke = invoke
		return nil
	})
	if err != nil {
		return FunctionCalls{}, &FunctionCallsDecodeError{Err: err}
	}
	if !hasInvoke {
		return FunctionCalls{}, &FunctionCallsDecodeError{Err: fmt.Errorf("missing <%s> element", invokeTag)}
	}
	return calls, nil
}

// ExcludeFunctionCalls flattens the content to text and decodes its first function_calls span.
func (c Content) ExcludeFunctionCalls() (FunctionCalls, error) {
	text, err := c.FlattenIntoText()
	if err != nil {
		return FunctionCalls{}, fmt.Errorf("flatten content: %w", err)
	}
	document, ok := ExtractFunctionCalls(text)
	if !ok {
		return FunctionCalls{}, ErrXMLNotFound
	}
	return DecodeFunctionCalls(document)
}

func decodeInvoke(decoder *xml.Decoder) (Invoke, error) {
	var (
		invoke        Invoke
		hasToolName   bool
		hasParameters bool
	)
	err := walkChildren(decoder, func(child xml.StartElement) error {
		switch {
		case child.Name.Local == toolNameTag && !hasToolName:
			name, err := leafText(decoder, child)
			if err != nil {
				return err
			}
			invoke.ToolName = name
			hasToolName = true
		case child.Name.Local == parametersTag && !hasParameters:
			params, err := decodeParameters(decoder)
			if err != nil {
				return err
			}
			invoke.Parameters = params
			hasParameters = true
		default:
			return decoder.Skip()
		}
		return nil
	})
	if err != nil {
		return Invoke{}, err
	}
	if !hasToolName {
		return Invoke{}, fmt.Errorf("missing <%s> element", toolNameTag)
	}
	if !hasParameters {
		return Invoke{}, fmt.Errorf("missing <%s> element", parametersTag)
	}
	return invoke, nil
}

func decodeParameters(decoder *xml.Decoder) (map[string]string, error) {
	params := make(map[string]string)
	err := walkChildren(decoder, func(child xml.StartElement) error {
		value, err := leafText(decoder, child)
		if err != nil {
			return err
		}
		if _, exists := params[child.Name.Local]; !exists {
			params[child.Name.Local] = value
		}
		return nil
	})
	return params, err
}

// walkChildren calls fn for each child element of the current element and
// returns once the current element's end tag is consumed. fn must consume the child.
func walkChildren(decoder *xml.Decoder, fn func(xml.StartElement) error) error {
	for {
		token, err := decoder.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// leafText reads character data up to the end of start. Nested elements are rejected.
func leafText(decoder *xml.Decoder, start xml.StartElement) (string, error) {
	var text strings.Builder
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			return "", fmt.Errorf("unexpected <%s> inside <%s>", t.Name.Local, start.Name.Local)
		case xml.EndElement:
			return strings.TrimSpace(text.String()), nil
		}
	}
}

func nextStart(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, errors.New("no root element")
			}
			return xml.StartElement{}, err
		}
		if start, ok := token.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

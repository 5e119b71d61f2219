// Package messages holds the data model of the Messages API: message content
// with its JSON shapes, validated request fields, request and response bodies,
// and extraction of function_calls XML from model output.
package messages

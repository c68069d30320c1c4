package ai

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks github.com/j0lvera/tgrelay/internal/ai Completer

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse is returned when the model answers with no usable text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrUnknownDriver is returned for an AI_DRIVER value no completer implements.
	ErrUnknownDriver = errors.New("unknown completion driver")
)

// Request is a single completion call: one system and one user message.
type Request struct {
	SystemPrompt string
	UserText     string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// Completer sends one Request to a chat completion endpoint.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Result is the outcome of a completion before it is resolved to a reply.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the completion produced text.
func (r Result) OK() bool {
	return r.Err == nil
}

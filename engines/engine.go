package engines

import "errors"

// ErrModelCallFailed is the only error a Completer surfaces. The
// underlying cause is logged, not returned.
var ErrModelCallFailed = errors.New("model call failed")

// LLM sends a prompt to a chat model. Chat returns the message of the
// first choice and fails when the reply carries no text content.
//
//go:generate mockgen -source=engine.go -destination=mocks/engine.go -package=mocks
type LLM interface {
	Chat(prompt *ChatPrompt) (*ChatMessage, error)
}

// Package llm is the boundary to the external text-completion service.
package llm

import (
	"context"
	"fmt"
)

// Completer produces a free-text completion for a prompt. The call is
// synchronous and may be slow; implementations must respect ctx and
// bound the call with their own timeout.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ServiceError wraps any failure of the external completion service so
// callers can degrade gracefully instead of crashing the request.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Preamble is the fixed framing prepended to every fallback question.
const Preamble = "You are a cash management assistant for an Indian company.\n" +
	"Currency is INR.\n" +
	"Explain clearly and concisely:\n\n"

// FallbackPrompt combines the fixed framing with the user's raw question.
func FallbackPrompt(question string) string {
	return Preamble + question
}

package llm

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"
)

// Gemini is the Completer backed by the Gemini API. Each call creates
// its own client and runs under its own deadline, so a stalled call
// cannot hold resources shared with other requests.
type Gemini struct {
	model   string
	timeout time.Duration
}

// NewGemini creates a Gemini completer. A non-positive timeout falls
// back to 30 seconds.
func NewGemini(model string, timeout time.Duration) *Gemini {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gemini{model: model, timeout: timeout}
}

// Complete implements Completer. A single attempt, no retries.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", &ServiceError{Op: "create genai client", Err: err}
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &ServiceError{Op: "generate content", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &ServiceError{Op: "generate content", Err: errEmptyResponse}
	}

	return text, nil
}

var errEmptyResponse = errors.New("empty response from model")

// Ensure Gemini satisfies the Completer interface.
var _ Completer = (*Gemini)(nil)

package vision

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/vbonduro/plantscan/internal/prompt"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no response text from model")

// Request is a single "generate content" call.
type Request struct {
	Payload     prompt.Payload
	Schema      *genai.Schema
	Temperature float32
}

// Generator sends one request to a hosted model and returns the raw text it
// produced, which is expected to be JSON matching Request.Schema.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/vbonduro/plantscan/internal/vision"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiGenerator struct {
	models contentGenerator
	model  string
}

// NewGeminiGenerator creates a generator backed by the Gemini API. baseURL
// is optional and only set when talking to a proxy or a test server.
func NewGeminiGenerator(ctx context.Context, apiKey, model, baseURL string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{models: client.Models, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req vision.Request) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, buildContents(req), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
		Temperature:      genai.Ptr(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", vision.ErrEmptyResponse
	}
	return text, nil
}

// buildContents puts the image part, when present, ahead of the instructions.
func buildContents(req vision.Request) []*genai.Content {
	parts := make([]*genai.Part, 0, 2)
	if img := req.Payload.Image; img != nil {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Payload.Text))
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

package claude

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/plantscan/internal/schema"
	"github.com/vbonduro/plantscan/internal/vision"
)

// The Messages API has no response-schema parameter, so the schema travels
// in the system prompt instead.
const systemPrompt = `Respond with a single JSON object and nothing else.
The object must validate against this JSON Schema:
%s`

type ClaudeGenerator struct {
	client *anthropic.Client
	model  string
}

// NewClaudeGenerator creates a generator for the Anthropic Messages API.
// baseURL may be empty to use the public endpoint.
func NewClaudeGenerator(apiKey, model, baseURL string) *ClaudeGenerator {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeGenerator{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (g *ClaudeGenerator) Generate(ctx context.Context, req vision.Request) (string, error) {
	system, err := buildSystem(req)
	if err != nil {
		return "", err
	}

	temperature := req.Temperature
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(g.model),
		// A full diagnosis with five video leads stays well under 2k tokens.
		MaxTokens:   2048,
		Temperature: &temperature,
		System:      system,
		Messages: []anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: buildContent(req),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText && c.GetText() != "" {
			return c.GetText(), nil
		}
	}
	return "", vision.ErrEmptyResponse
}

func buildSystem(req vision.Request) (string, error) {
	if req.Schema == nil {
		return "", nil
	}
	doc, err := json.MarshalIndent(schema.JSON(req.Schema), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return fmt.Sprintf(systemPrompt, doc), nil
}

func buildContent(req vision.Request) []anthropic.MessageContent {
	content := make([]anthropic.MessageContent, 0, 2)
	if img := req.Payload.Image; img != nil {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				img.MIMEType,
				base64.StdEncoding.EncodeToString(img.Data),
			),
		))
	}
	return append(content, anthropic.NewTextMessageContent(req.Payload.Text))
}

package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	translation "mandi/internal/domain/entity/translation"
	"mandi/internal/domain/interfaces"
)

var _ interfaces.TranslationGateway = (*Client)(nil)

const defaultModel = "gemini-2.0-flash-001"

// Client translates text through the Gemini API. It is the only component
// with network side effects; the cache layer above it owns the fallback
// policy.
type Client struct {
	model *genai.GenerativeModel
}

// NewClient builds a gateway for the given API key. An empty model name
// selects the default flash model.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if modelName == "" {
		modelName = defaultModel
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "text/plain"
	return &Client{model: model}, nil
}

// Translate converts text from source to target language. Languages cross
// the gateway boundary as two-letter codes (mr, hi, en).
func (c *Client) Translate(ctx context.Context, text string, source, target translation.Language) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text from %s (%s) to %s (%s). "+
			"Reply with the translated text only, no explanations.\n\n%s",
		source, source.Code(), target, target.Code(), text,
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	txt, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T", part)
	}
	translated := strings.TrimSpace(string(txt))
	if translated == "" {
		return "", fmt.Errorf("blank translation from gemini")
	}
	return translated, nil
}

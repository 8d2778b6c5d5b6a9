package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiConfig defines configuration options for the Gemini generator.
type GeminiConfig struct {
	APIKey string
}

// GeminiGenerator calls the Gemini API with a structured response schema.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client}, nil
}

// Name identifies the provider.
func (g *GeminiGenerator) Name() string {
	return ProviderGemini
}

// Generate sends the prompt and returns the raw JSON text of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (_ GenerateResponse, err error) {
	ctx, span := startGenerate(ctx, g.Name(), req.Model)
	defer func() { endGenerate(span, err) }()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(req.Temperature),
	}
	if req.Schema != nil {
		config.ResponseSchema = toGenaiSchema(req.Schema.Document())
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("gemini generate: %w", err)
	}

	return GenerateResponse{Text: resp.Text()}, nil
}

func toGenaiSchema(node *SchemaNode) *genai.Schema {
	if node == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(node.Type),
		Description: node.Description,
		Items:       toGenaiSchema(node.Items),
	}
	if len(node.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(node.Properties))
		out.PropertyOrdering = make([]string, 0, len(node.Properties))
		for _, p := range node.Properties {
			out.Properties[p.Name] = toGenaiSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
	}
	if len(node.Required) > 0 {
		out.Required = append([]string(nil), node.Required...)
	}
	return out
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case SchemaObject:
		return genai.TypeObject
	case SchemaInteger:
		return genai.TypeInteger
	case SchemaArray:
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}

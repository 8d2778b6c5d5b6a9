package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig defines configuration options for the OpenAI generator.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// OpenAIGenerator implements Generator against the OpenAI chat completion API
// using json_schema structured output.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIGenerator builds a new generator using the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key is required", ErrConfiguration)
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 8192
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
	}, nil
}

// Name identifies the provider.
func (g *OpenAIGenerator) Name() string {
	return ProviderOpenAI
}

// Generate sends the prompt to OpenAI and returns the first choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (_ GenerateResponse, err error) {
	ctx, span := startGenerate(ctx, g.Name(), req.Model)
	defer func() { endGenerate(span, err) }()

	request := openai.ChatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}
	if req.Schema != nil {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "project_report",
				Schema: req.Schema,
			},
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("openai generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return GenerateResponse{}, nil
	}

	return GenerateResponse{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}

package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/osintlab/tgscout/internal/model"
)

// OpenAI implements Annotator over the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	cfg    model.AnalysisConfig
}

// NewOpenAI creates the OpenAI backend.
func NewOpenAI(cfg model.AnalysisConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}, nil
}

// Name implements Annotator.
func (o *OpenAI) Name() string { return "openai" }

// Annotate implements Annotator.
func (o *OpenAI) Annotate(ctx context.Context, prompt string) (string, error) {
	chatModel := o.cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	maxTokens := o.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	timeout := o.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You assess OSINT search results. Respond only with the requested JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseAnnotations decodes the model's JSON array, tolerating markdown
// code fences around it.
func parseAnnotations(raw string) ([]model.Annotation, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var annotations []model.Annotation
	if err := json.Unmarshal([]byte(raw[start:end+1]), &annotations); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	return annotations, nil
}

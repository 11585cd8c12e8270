package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"pixelsage-server/internal/core/providers/llm"
	"pixelsage-server/internal/platform/errors"
)

// Provider talks to any OpenAI-compatible chat completion API.
type Provider struct {
	*llm.BaseProvider
	client *openai.Client
}

func init() {
	llm.Register("openai", NewProvider)
}

// NewProvider creates an OpenAI-compatible provider.
func NewProvider(config *llm.Config) (llm.Provider, error) {
	return &Provider{
		BaseProvider: llm.NewBaseProvider(config),
	}, nil
}

// Initialize builds the API client.
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return errors.New(errors.KindConfig, "openai_init", "missing OpenAI API key")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Complete returns a single chat completion for the prompt.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

// CompleteWithImage sends the prompt together with an inline image.
func (p *Provider) CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	return p.complete(ctx, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: prompt,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", mimeType, encoded),
					},
				},
			},
		},
	})
}

func (p *Provider) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	config := p.Config()
	ctx, cancel := context.WithTimeout(ctx, p.RequestTimeout())
	defer cancel()

	p.PublishStarted()
	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       config.ModelName,
		Messages:    messages,
		Temperature: float32(config.Temperature),
		MaxTokens:   config.MaxTokens,
	})
	if err != nil {
		p.PublishFailed(err)
		return "", errors.Wrap(errors.KindGeneration, "openai_complete", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New(errors.KindGeneration, "openai_complete", "empty completion response")
		p.PublishFailed(err)
		return "", err
	}

	p.PublishCompleted(time.Since(start))
	return resp.Choices[0].Message.Content, nil
}

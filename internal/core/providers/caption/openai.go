package caption

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"pixelsage-server/internal/platform/errors"
)

const captionPrompt = "Describe this image in one concise sentence suitable as alt text. " +
	"Mention the main subject and setting, without opinions or speculation."

// OpenAIProvider captions images through an OpenAI-compatible vision API.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func init() {
	Register("openai", NewOpenAIProvider)
}

// NewOpenAIProvider creates the vision-backed caption provider.
func NewOpenAIProvider(config *Config) (Provider, error) {
	return &OpenAIProvider{config: config}, nil
}

// Initialize builds the API client.
func (p *OpenAIProvider) Initialize() error {
	if p.config.APIKey == "" {
		return errors.New(errors.KindConfig, "caption_init", "missing caption API key")
	}

	clientConfig := openai.DefaultConfig(p.config.APIKey)
	if p.config.BaseURL != "" {
		clientConfig.BaseURL = p.config.BaseURL
	}
	p.client = openai.NewClientWithConfig(clientConfig)
	return nil
}

// Cleanup releases resources.
func (p *OpenAIProvider) Cleanup() error {
	return nil
}

// Caption returns a one-sentence description of the image.
func (p *OpenAIProvider) Caption(ctx context.Context, image []byte, mimeType string) (string, error) {
	timeout := 45 * time.Second
	if p.config.Timeout > 0 {
		timeout = time.Duration(p.config.Timeout) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	encoded := base64.StdEncoding.EncodeToString(image)
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.config.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: captionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", mimeType, encoded),
						},
					},
				},
			},
		},
		MaxTokens: 120,
	})
	if err != nil {
		return "", errors.Wrap(errors.KindGeneration, "caption", "vision completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.KindGeneration, "caption", "empty caption response")
	}
	return resp.Choices[0].Message.Content, nil
}

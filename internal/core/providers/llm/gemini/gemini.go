package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"pixelsage-server/internal/core/providers/llm"
	"pixelsage-server/internal/platform/errors"
)

// Provider talks to the Google Generative AI API.
type Provider struct {
	*llm.BaseProvider
	client *genai.Client
	model  *genai.GenerativeModel
}

func init() {
	llm.Register("gemini", NewProvider)
}

// NewProvider creates a Gemini provider.
func NewProvider(config *llm.Config) (llm.Provider, error) {
	return &Provider{
		BaseProvider: llm.NewBaseProvider(config),
	}, nil
}

// Initialize builds the API client and model handle.
func (p *Provider) Initialize() error {
	config := p.Config()
	if config.APIKey == "" {
		return errors.New(errors.KindConfig, "gemini_init", "missing Gemini API key")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return errors.Wrap(errors.KindConfig, "gemini_init", "create client", err)
	}

	model := client.GenerativeModel(config.ModelName)
	if config.Temperature > 0 {
		model.SetTemperature(float32(config.Temperature))
	}
	if config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(config.MaxTokens))
	}

	p.client = client
	p.model = model
	return nil
}

// Cleanup closes the underlying connection.
func (p *Provider) Cleanup() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Complete returns a single completion for the prompt.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, genai.Text(prompt))
}

// CompleteWithImage sends the prompt together with an inline image.
func (p *Provider) CompleteWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return p.generate(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
}

func (p *Provider) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.RequestTimeout())
	defer cancel()

	p.PublishStarted()
	start := time.Now()
	resp, err := p.model.GenerateContent(ctx, parts...)
	if err != nil {
		p.PublishFailed(err)
		return "", errors.Wrap(errors.KindGeneration, "gemini_complete", "generate content failed", err)
	}

	text := extractText(resp)
	if text == "" {
		err := errors.New(errors.KindGeneration, "gemini_complete", "empty model response")
		p.PublishFailed(err)
		return "", err
	}

	p.PublishCompleted(time.Since(start))
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

package services

import (
	"context"
	"fmt"
	"strings"

	"pixelsage-server/internal/core/providers/llm"
	"pixelsage-server/internal/platform/errors"
	"pixelsage-server/internal/platform/logging"
)

// shortAltTextFiller is appended when a single model expansion still falls
// below the minimum word count.
const shortAltTextFiller = " with various details and elements visible in the scene"

// defaultHashtags is returned when the model yields no usable hashtags.
var defaultHashtags = []string{"#Photography", "#Social", "#Content"}

// TextService wraps the generative text provider with the prompt pipelines
// used across the analysis endpoints.
type TextService struct {
	llm             llm.Provider
	logger          *logging.Logger
	minAltTextWords int
}

// NewTextService creates the text pipeline service.
func NewTextService(provider llm.Provider, minAltTextWords int, logger *logging.Logger) *TextService {
	if minAltTextWords <= 0 {
		minAltTextWords = 6
	}
	return &TextService{
		llm:             provider,
		logger:          logger,
		minAltTextWords: minAltTextWords,
	}
}

// CleanText collapses consecutive duplicate words and squeezes runs of
// repeated characters, countering the stutter some caption models produce.
func CleanText(text string) string {
	if text == "" {
		return text
	}

	words := strings.Fields(text)
	deduped := make([]string, 0, len(words))
	for i, w := range words {
		if i > 0 && w == words[i-1] {
			continue
		}
		deduped = append(deduped, w)
	}

	var sb strings.Builder
	var prev rune = -1
	for _, r := range strings.Join(deduped, " ") {
		if r == prev {
			continue
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

// EnhanceAltText guarantees the alt text has at least the minimum number of
// words. A short text gets exactly one model expansion; if the result is
// still short a fixed filler clause is appended. Failures fall back to the
// original text.
func (s *TextService) EnhanceAltText(ctx context.Context, altText string) string {
	if len(strings.Fields(altText)) >= s.minAltTextWords {
		return altText
	}

	prompt := fmt.Sprintf(`Enhance this image description to be more detailed and descriptive.
The current description is too short: %q

Please provide a more detailed description that is AT LEAST %d words long.
Focus on what is visible in the image, spatial relationships, and key details.
Keep it factual and objective.`, altText, s.minAltTextWords)

	enhanced, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.logger.WarnTag("LLM", "alt text enhancement failed, keeping original: %v", err)
		return altText
	}
	enhanced = strings.TrimSpace(enhanced)

	if len(strings.Fields(enhanced)) < s.minAltTextWords {
		enhanced += shortAltTextFiller
	}
	s.logger.DebugTag("LLM", "enhanced alt text from %q to %q", altText, enhanced)
	return enhanced
}

// GenerateContext turns alt text into a clear description.
func (s *TextService) GenerateContext(ctx context.Context, altText string) (string, error) {
	cleaned := CleanText(altText)

	prompt := fmt.Sprintf(`Generate a clear and concise description for this image.
Avoid any repetition or redundant phrases.

Original description: %s`, cleaned)

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(errors.KindGeneration, "generate_context", "context generation failed", err)
	}
	return strings.TrimSpace(text), nil
}

// EnhanceContext expands a context with additional descriptive detail.
func (s *TextService) EnhanceContext(ctx context.Context, context string) (string, error) {
	prompt := fmt.Sprintf(`Enhance this context with more descriptive details while maintaining accuracy:

Original: %s

Requirements:
1. Add sensory details
2. Include specific measurements or technical details if applicable
3. Maintain factual accuracy
4. Keep the enhanced version under 100 words`, context)

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(errors.KindGeneration, "enhance_context", "context enhancement failed", err)
	}
	return strings.TrimSpace(text), nil
}

// SocialCaption writes an engaging caption for the given image context.
func (s *TextService) SocialCaption(ctx context.Context, context string) (string, error) {
	prompt := fmt.Sprintf(`Create an engaging social media caption for this image.
Make it conversational, include relevant emojis, and keep it under 200 characters.
Avoid any word repetition or stuttering patterns.

Image context: %s`, context)

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(errors.KindGeneration, "social_caption", "caption generation failed", err)
	}
	return CleanText(strings.TrimSpace(text)), nil
}

// ImageContext asks the vision model for a detailed description of the image.
func (s *TextService) ImageContext(ctx context.Context, image []byte, mimeType string) (string, error) {
	prompt := `Analyze this image in detail and provide:
1. A comprehensive description
2. Key elements and their significance
3. Notable visual characteristics
4. Any relevant context or implications
Be specific and detailed in your analysis.`

	text, err := s.llm.CompleteWithImage(ctx, prompt, image, mimeType)
	if err != nil {
		return "", errors.Wrap(errors.KindGeneration, "image_context", "vision description failed", err)
	}
	return strings.TrimSpace(text), nil
}

// EnhancedText deepens a base description into a fuller analysis.
func (s *TextService) EnhancedText(ctx context.Context, baseDescription string) (string, error) {
	prompt := fmt.Sprintf(`Based on this image description, provide an enhanced, more detailed analysis:

Original description: %s

Please include:
1. Deeper contextual analysis
2. Potential symbolism or significance
3. Technical aspects of the image
4. Cultural or historical relevance (if applicable)`, baseDescription)

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(errors.KindGeneration, "enhanced_text", "enhanced analysis failed", err)
	}
	return strings.TrimSpace(text), nil
}

// GenerateHashtags extracts hashtags from a model response; tokens without a
// leading '#' are discarded. An empty extraction returns the defaults.
func (s *TextService) GenerateHashtags(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`Generate 8-10 relevant, trending hashtags for this social media post.
Make them specific, engaging, and properly formatted with # symbol.
Each hashtag should be a single word or compound words without spaces.

Text: %s

Example format:
#Photography #Nature #Wildlife #Beautiful`, text)

	response, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "generate_hashtags", "hashtag generation failed", err)
	}

	var hashtags []string
	for _, token := range strings.Fields(response) {
		token = strings.TrimSpace(token)
		if strings.HasPrefix(token, "#") && len(token) > 1 {
			hashtags = append(hashtags, token)
		}
	}
	if len(hashtags) == 0 {
		hashtags = append([]string(nil), defaultHashtags...)
	}

	s.logger.DebugTag("LLM", "generated hashtags: %v", hashtags)
	return hashtags, nil
}

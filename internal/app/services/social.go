package services

import (
	"context"

	"pixelsage-server/internal/platform/logging"
)

// SocialContent is the payload returned by the social media pipelines.
type SocialContent struct {
	AltText  string   `json:"alt_text"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// SocialService assembles social media copy for an uploaded image.
type SocialService struct {
	analyzer *Analyzer
	text     *TextService
	logger   *logging.Logger
}

// NewSocialService creates the social pipeline service.
func NewSocialService(analyzer *Analyzer, text *TextService, logger *logging.Logger) *SocialService {
	return &SocialService{
		analyzer: analyzer,
		text:     text,
		logger:   logger,
	}
}

// Analyze runs the caption-provider pipeline: describe, pad the alt text,
// derive a context, then write a caption and hashtags. Hashtag failure is
// non-fatal and yields an empty list.
func (s *SocialService) Analyze(ctx context.Context, raw []byte, mimeType string) ServiceResult {
	altText := s.analyzer.Describe(ctx, raw, mimeType)
	altText = s.text.EnhanceAltText(ctx, altText)

	imageContext, err := s.text.GenerateContext(ctx, altText)
	if err != nil {
		return Fail(CodeContextError, err.Error())
	}

	captionText, err := s.text.SocialCaption(ctx, imageContext)
	if err != nil {
		return Fail(CodeCaptionError, err.Error())
	}

	hashtags, err := s.text.GenerateHashtags(ctx, imageContext)
	if err != nil {
		s.logger.ErrorTag("LLM", "hashtag generation failed: %v", err)
		hashtags = []string{}
	}

	return Ok(SocialContent{
		AltText:  altText,
		Caption:  captionText,
		Hashtags: hashtags,
	})
}

// AnalyzeVision runs the vision-model pipeline: the generative model reads
// the image directly and its description seeds the caption and hashtags.
func (s *SocialService) AnalyzeVision(ctx context.Context, raw []byte, mimeType string) ServiceResult {
	altText, err := s.text.ImageContext(ctx, raw, mimeType)
	if err != nil {
		return Fail(CodeProcessingError, err.Error())
	}
	altText = s.text.EnhanceAltText(ctx, altText)

	enhanced, err := s.text.EnhancedText(ctx, altText)
	if err != nil {
		return Fail(CodeProcessingError, err.Error())
	}

	hashtags, err := s.text.GenerateHashtags(ctx, enhanced)
	if err != nil {
		s.logger.ErrorTag("LLM", "hashtag generation failed: %v", err)
		hashtags = append([]string(nil), defaultHashtags...)
	}

	return Ok(SocialContent{
		AltText:  altText,
		Caption:  enhanced,
		Hashtags: hashtags,
	})
}

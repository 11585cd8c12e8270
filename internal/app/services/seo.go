package services

import (
	"context"
	"fmt"

	"pixelsage-server/internal/domain/report"
	"pixelsage-server/internal/platform/logging"
)

// SEOContent combines the SEO sections with their social media variations.
type SEOContent struct {
	MetaTitle          string   `json:"meta_title"`
	MetaDescription    string   `json:"meta_description"`
	AlternativeTitles  []string `json:"alternative_titles"`
	Keywords           []string `json:"keywords"`
	ProductDescription string   `json:"product_description"`
	InstagramCaptions  []string `json:"instagram_captions"`
	TwitterPosts       []string `json:"twitter_posts"`
	FacebookPost       string   `json:"facebook_post"`
	Hashtags           []string `json:"hashtags"`
}

// SEOService generates search and social copy from an image context.
type SEOService struct {
	analyzer *Analyzer
	text     *TextService
	logger   *logging.Logger
}

// NewSEOService creates the SEO pipeline service.
func NewSEOService(analyzer *Analyzer, text *TextService, logger *logging.Logger) *SEOService {
	return &SEOService{
		analyzer: analyzer,
		text:     text,
		logger:   logger,
	}
}

// AnalyzeImage captions the upload and generates SEO copy from the result.
func (s *SEOService) AnalyzeImage(ctx context.Context, raw []byte, mimeType string) ServiceResult {
	altText := s.analyzer.Describe(ctx, raw, mimeType)
	altText = s.text.EnhanceAltText(ctx, altText)

	imageContext, err := s.text.GenerateContext(ctx, altText)
	if err != nil {
		return Fail(CodeContextError, err.Error())
	}
	return s.Generate(ctx, imageContext, altText)
}

// Generate runs the two-stage SEO pipeline: one completion for the SEO
// sections and a second for the social media variations, both parsed
// through the report specs.
func (s *SEOService) Generate(ctx context.Context, imageContext, altText string) ServiceResult {
	basePrompt := fmt.Sprintf(`Generate SEO-optimized content for this image:

Context: %s
`, imageContext)
	if altText != "" {
		basePrompt += fmt.Sprintf("\nAdditional Description: %s", altText)
	}
	basePrompt += `

Please provide:
1. A compelling meta title (50-60 characters)
2. A meta description (150-160 characters)
3. Three alternative titles for A/B testing
4. Five relevant keywords
5. A detailed product description (200-300 words)

Format the response in clear sections.`

	content, err := s.text.llm.Complete(ctx, basePrompt)
	if err != nil {
		return Fail(CodeSEOError, err.Error())
	}
	seoResult := report.Parse(content, report.SEOSpec())

	socialPrompt := fmt.Sprintf(`Generate social media variations for this content:

Original Content: %s

Provide:
1. Three Instagram captions (each under 200 characters)
2. Three Twitter/X posts (each under 280 characters)
3. A longer Facebook post (400-600 characters)
4. Five relevant hashtags

Format each variation clearly.`, content)

	socialContent, err := s.text.llm.Complete(ctx, socialPrompt)
	if err != nil {
		return Fail(CodeSEOError, err.Error())
	}
	socialResult := report.Parse(socialContent, report.SocialSpec())

	return Ok(SEOContent{
		MetaTitle:          seoResult.Text[report.KeyMetaTitle],
		MetaDescription:    seoResult.Text[report.KeyMetaDescription],
		AlternativeTitles:  seoResult.Lists[report.KeyAlternativeTitles],
		Keywords:           seoResult.Lists[report.KeyKeywords],
		ProductDescription: seoResult.Text[report.KeyProductDescription],
		InstagramCaptions:  socialResult.Lists[report.KeyInstagramCaptions],
		TwitterPosts:       socialResult.Lists[report.KeyTwitterPosts],
		FacebookPost:       socialResult.Text[report.KeyFacebookPost],
		Hashtags:           socialResult.Lists[report.KeyHashtags],
	})
}

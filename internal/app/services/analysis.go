package services

import (
	"bytes"
	"context"
	"fmt"
	goimage "image"
	"math"
	"strings"

	"github.com/bytedance/sonic"

	"pixelsage-server/internal/domain/image"
	"pixelsage-server/internal/domain/sentiment"
	"pixelsage-server/internal/platform/logging"
)

// GeneralAnalysis is the payload of the general analysis pipeline.
type GeneralAnalysis struct {
	Description   string            `json:"description"`
	Objects       []image.Detection `json:"objects"`
	Colors        []image.ColorInfo `json:"dominant_colors"`
	QualityIssues []string          `json:"quality_issues"`
}

// ColorAnalysis carries rendered charts plus the dominant color data.
type ColorAnalysis struct {
	Histogram        string    `json:"histogram"`
	PieChart         string    `json:"pie_chart"`
	DominantColors   []string  `json:"dominant_colors"`
	ColorPercentages []float64 `json:"color_percentages"`
}

// Sentiment is the scored mood of the generated description.
type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// AdvancedAnalysis is the payload of the advanced analysis pipeline.
type AdvancedAnalysis struct {
	Description   string        `json:"description"`
	ColorAnalysis ColorAnalysis `json:"color_analysis"`
	Sentiment     Sentiment     `json:"sentiment"`
}

// AltTextContext is the payload of the image analyzer pipeline.
type AltTextContext struct {
	AltText string `json:"alt_text"`
	Context string `json:"context"`
}

// AnalysisService runs the general, advanced and analyzer pipelines.
type AnalysisService struct {
	analyzer *Analyzer
	text     *TextService
	logger   *logging.Logger
}

// NewAnalysisService creates the analysis pipeline service.
func NewAnalysisService(analyzer *Analyzer, text *TextService, logger *logging.Logger) *AnalysisService {
	return &AnalysisService{
		analyzer: analyzer,
		text:     text,
		logger:   logger,
	}
}

// General produces the description, detected objects and dominant colors.
// Model unavailability degrades each part independently.
func (s *AnalysisService) General(ctx context.Context, raw []byte, mimeType string) ServiceResult {
	img, _, err := goimage.Decode(bytes.NewReader(raw))
	if err != nil {
		return Fail(CodeInvalidImage, "cannot decode image: "+err.Error())
	}

	description, quality := s.analyzer.DescribeDetailed(ctx, raw, mimeType)
	objects := s.analyzer.DetectObjects(ctx, raw, mimeType)
	colors := s.analyzer.DominantColors(img)

	return Ok(GeneralAnalysis{
		Description:   description,
		Objects:       objects,
		Colors:        colors,
		QualityIssues: quality.Flags,
	})
}

// ImageAnalyzer captions the upload and enhances the caption into a richer
// context paragraph.
func (s *AnalysisService) ImageAnalyzer(ctx context.Context, raw []byte, mimeType string) ServiceResult {
	altText := s.analyzer.Describe(ctx, raw, mimeType)

	enhanced, err := s.text.EnhanceContext(ctx, altText)
	if err != nil {
		return Fail(CodeProcessingError, err.Error())
	}

	return Ok(AltTextContext{
		AltText: altText,
		Context: enhanced,
	})
}

// Advanced produces the enhanced description, chart-backed color analysis
// and sentiment of the description.
func (s *AnalysisService) Advanced(ctx context.Context, raw []byte, mimeType string) ServiceResult {
	img, _, err := goimage.Decode(bytes.NewReader(raw))
	if err != nil {
		return Fail(CodeInvalidImage, "cannot decode image: "+err.Error())
	}

	altText := s.analyzer.Describe(ctx, raw, mimeType)
	imageContext, err := s.text.GenerateContext(ctx, altText)
	if err != nil {
		return Fail(CodeContextError, err.Error())
	}
	enhanced, err := s.text.EnhancedText(ctx, imageContext)
	if err != nil {
		return Fail(CodeProcessingError, err.Error())
	}

	colorAnalysis, err := s.analyzeColors(img)
	if err != nil {
		return Fail(CodeProcessingError, err.Error())
	}

	return Ok(AdvancedAnalysis{
		Description:   enhanced,
		ColorAnalysis: colorAnalysis,
		Sentiment:     s.sentiment(ctx, enhanced),
	})
}

func (s *AnalysisService) analyzeColors(img goimage.Image) (ColorAnalysis, error) {
	colors := s.analyzer.DominantColors(img)

	histogram, err := image.RenderHistogram(img)
	if err != nil {
		return ColorAnalysis{}, err
	}
	pie, err := image.RenderColorPie(colors)
	if err != nil {
		return ColorAnalysis{}, err
	}

	hexes := make([]string, len(colors))
	percentages := make([]float64, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex
		percentages[i] = c.Percent
	}

	return ColorAnalysis{
		Histogram:        histogram,
		PieChart:         pie,
		DominantColors:   hexes,
		ColorPercentages: percentages,
	}, nil
}

type sentimentPayload struct {
	Category   string   `json:"category"`
	Score      float64  `json:"score"`
	Indicators []string `json:"indicators"`
}

// sentiment asks the model for a JSON sentiment verdict. Prose-wrapped JSON
// is recovered by slicing from the first '{' to the last '}'. When the model
// answer cannot be used, the local lexicon scorer takes over.
func (s *AnalysisService) sentiment(ctx context.Context, text string) Sentiment {
	if strings.TrimSpace(text) == "" {
		return Sentiment{Score: 0.5, Label: "Neutral"}
	}

	prompt := fmt.Sprintf(`Analyze the sentiment of this text and provide:
1. Overall sentiment category (Positive, Negative, or Neutral)
2. Confidence score (0-1)
3. Key emotional indicators

Text: %s

You MUST return ONLY valid JSON with these exact keys:
{
    "category": "sentiment category",
    "score": confidence_score,
    "indicators": ["key", "emotional", "indicators"]
}

Do not include any explanations, markdown formatting, or additional text before or after the JSON.`, text)

	response, err := s.text.llm.Complete(ctx, prompt)
	if err != nil {
		s.logger.WarnTag("LLM", "sentiment completion failed, using lexicon scorer: %v", err)
		return localSentiment(text)
	}

	payload, err := decodeSentiment(response)
	if err != nil {
		s.logger.WarnTag("LLM", "sentiment response unusable, using lexicon scorer: %v", err)
		return localSentiment(text)
	}
	return Sentiment{Score: payload.Score, Label: payload.Category}
}

// decodeSentiment parses the model response, recovering JSON embedded in
// surrounding prose.
func decodeSentiment(response string) (sentimentPayload, error) {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "{") {
		start := strings.Index(response, "{")
		end := strings.LastIndex(response, "}")
		if start >= 0 && end > start {
			response = response[start : end+1]
		}
	}

	var payload sentimentPayload
	if err := sonic.Unmarshal([]byte(response), &payload); err != nil {
		return sentimentPayload{}, err
	}
	if payload.Category == "" {
		return sentimentPayload{}, fmt.Errorf("missing category in sentiment response")
	}
	return payload, nil
}

func localSentiment(text string) Sentiment {
	scores := sentiment.Analyze(text)
	confidence := 0.5 + math.Abs(scores.Compound)/2
	return Sentiment{
		Score: math.Round(confidence*100) / 100,
		Label: sentiment.Category(scores.Compound),
	}
}

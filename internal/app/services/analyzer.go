package services

import (
	"bytes"
	"context"
	goimage "image"
	"image/png"
	"math"

	"pixelsage-server/internal/core/providers/caption"
	"pixelsage-server/internal/core/providers/detector"
	"pixelsage-server/internal/domain/eventbus"
	"pixelsage-server/internal/domain/image"
	"pixelsage-server/internal/platform/logging"
)

// CaptionUnavailable is returned instead of an error when the caption
// provider cannot serve. Clients receive the sentinel as the description.
const CaptionUnavailable = "Image description unavailable due to model loading issues."

// Analyzer runs the model-backed and local image analysis primitives.
type Analyzer struct {
	caption  caption.Provider
	detector detector.Provider
	logger   *logging.Logger

	threshold      float64
	colorClusters  int
	downsampleEdge int
}

// NewAnalyzer creates the analysis service.
func NewAnalyzer(cap caption.Provider, det detector.Provider, threshold float64, colorClusters, downsampleEdge int, logger *logging.Logger) *Analyzer {
	if threshold <= 0 {
		threshold = 0.7
	}
	if colorClusters <= 0 {
		colorClusters = 5
	}
	return &Analyzer{
		caption:        cap,
		detector:       det,
		logger:         logger,
		threshold:      threshold,
		colorClusters:  colorClusters,
		downsampleEdge: downsampleEdge,
	}
}

// Describe produces a one-shot caption. Provider failure degrades softly to
// the sentinel description, never to an error.
func (a *Analyzer) Describe(ctx context.Context, raw []byte, mimeType string) string {
	if a.caption == nil {
		a.publishDegraded("caption", "provider not configured")
		return CaptionUnavailable
	}

	text, err := a.caption.Caption(ctx, raw, mimeType)
	if err != nil {
		a.logger.WarnTag("VLM", "caption provider unavailable: %v", err)
		a.publishDegraded("caption", err.Error())
		return CaptionUnavailable
	}
	return CleanText(text)
}

// DescribeDetailed runs the enhancement pass before captioning and reports
// advisory quality metrics alongside the description.
func (a *Analyzer) DescribeDetailed(ctx context.Context, raw []byte, mimeType string) (string, image.QualityReport) {
	img, _, err := goimage.Decode(bytes.NewReader(raw))
	if err != nil {
		a.logger.WarnTag("ANALYZE", "decode for detailed description failed: %v", err)
		return a.Describe(ctx, raw, mimeType), image.QualityReport{}
	}

	quality := image.Quality(img)
	if len(quality.Flags) > 0 {
		a.logger.InfoTag("ANALYZE", "image quality issues detected: %v", quality.Flags)
	}

	enhanced := image.Enhance(img)
	encoded, encodeErr := encodePNG(enhanced)
	if encodeErr != nil {
		return a.Describe(ctx, raw, mimeType), quality
	}
	return a.Describe(ctx, encoded, "image/png"), quality
}

// DetectObjects filters provider detections by the confidence threshold and
// deduplicates by name, keeping strictly higher confidence; the first seen
// wins exact ties. Provider failure degrades to an empty list.
func (a *Analyzer) DetectObjects(ctx context.Context, raw []byte, mimeType string) []image.Detection {
	if a.detector == nil {
		a.publishDegraded("detector", "provider not configured")
		return []image.Detection{}
	}

	detections, err := a.detector.Detect(ctx, raw, mimeType)
	if err != nil {
		a.logger.WarnTag("DETECTOR", "object detection unavailable: %v", err)
		a.publishDegraded("detector", err.Error())
		return []image.Detection{}
	}

	var kept []image.Detection
	for _, d := range detections {
		if d.Confidence > a.threshold {
			kept = append(kept, image.Detection{
				Name:       d.Name,
				Confidence: math.Round(d.Confidence*100*100) / 100,
			})
		}
	}

	byName := make(map[string]int, len(kept))
	unique := make([]image.Detection, 0, len(kept))
	for _, d := range kept {
		if idx, seen := byName[d.Name]; seen {
			if d.Confidence > unique[idx].Confidence {
				unique[idx] = d
			}
			continue
		}
		byName[d.Name] = len(unique)
		unique = append(unique, d)
	}
	return unique
}

// DominantColors clusters a downsampled copy of the image.
func (a *Analyzer) DominantColors(img goimage.Image) []image.ColorInfo {
	small := image.Downsample(img, a.downsampleEdge)
	return image.DominantColors(small, a.colorClusters)
}

func encodePNG(img goimage.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Analyzer) publishDegraded(component, reason string) {
	eventbus.Publish(eventbus.EventAnalysisDegraded, eventbus.DegradedEventData{
		Component: component,
		Fallback:  "default",
		Reason:    reason,
	})
}

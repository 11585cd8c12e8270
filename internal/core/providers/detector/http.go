package detector

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"pixelsage-server/internal/domain/image"
	"pixelsage-server/internal/platform/errors"
)

// HTTPProvider calls a hosted detection endpoint that accepts raw image
// bytes and answers with a JSON list of labeled scores.
type HTTPProvider struct {
	config *Config
	client *http.Client
}

type detectionResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func init() {
	Register("http", NewHTTPProvider)
}

// NewHTTPProvider creates the HTTP-backed detector.
func NewHTTPProvider(config *Config) (Provider, error) {
	return &HTTPProvider{config: config}, nil
}

// Initialize builds the HTTP client.
func (p *HTTPProvider) Initialize() error {
	if p.config.URL == "" {
		return errors.New(errors.KindConfig, "detector_init", "missing detector endpoint URL")
	}

	timeout := 30 * time.Second
	if p.config.Timeout > 0 {
		timeout = time.Duration(p.config.Timeout) * time.Second
	}
	p.client = &http.Client{Timeout: timeout}
	return nil
}

// Cleanup releases resources.
func (p *HTTPProvider) Cleanup() error {
	p.client.CloseIdleConnections()
	return nil
}

// Detect posts the image and decodes the detection list.
func (p *HTTPProvider) Detect(ctx context.Context, img []byte, mimeType string) ([]image.Detection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(img))
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "detect", "build request", err)
	}
	req.Header.Set("Content-Type", mimeType)
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "detect", "detection request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "detect", "read detection response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.KindGeneration, "detect",
			"detection endpoint returned "+resp.Status)
	}

	var raw []detectionResponse
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(errors.KindGeneration, "detect", "decode detection response", err)
	}

	detections := make([]image.Detection, 0, len(raw))
	for _, d := range raw {
		detections = append(detections, image.Detection{
			Name:       d.Label,
			Confidence: d.Score,
		})
	}
	return detections, nil
}

package config

import "pixelsage-server/internal/platform/logging"

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:        "0.0.0.0",
			Port:      8080,
			StaticDir: "./static",
			CORS:      []string{"*"},
		},
		Log: logging.Config{
			Level:    "info",
			Dir:      "logs",
			Filename: "server.log",
		},
		Upload: UploadConfig{
			MaxFileSize:        16 << 20,
			MaxMedicalFileSize: 32 << 20,
			AllowedFormats:     []string{"png", "jpg", "jpeg", "gif"},
			MedicalFormats:     []string{"png", "jpg", "jpeg", "gif", "tiff", "dcm"},
			TempDir:            "uploads",
		},
		Analysis: AnalysisConfig{
			DetectionThreshold: 0.7,
			DominantColors:     5,
			MinAltTextWords:    6,
			DownsampleEdge:     256,
		},
		Selected: SelectedConfig{
			LLM:      "GeminiLLM",
			Caption:  "OpenAICaption",
			Detector: "HTTPDetector",
			TTS:      "EdgeTTS",
		},
		LLM: map[string]LLMConfig{
			"GeminiLLM": {
				Type:        "gemini",
				ModelName:   "gemini-1.5-flash",
				APIKey:      "${GEMINI_API_KEY}",
				Temperature: 0.7,
				MaxTokens:   2048,
				Timeout:     60,
			},
			"OpenAILLM": {
				Type:        "openai",
				ModelName:   "gpt-4o-mini",
				BaseURL:     "https://api.openai.com/v1",
				APIKey:      "${OPENAI_API_KEY}",
				Temperature: 0.7,
				MaxTokens:   2048,
				Timeout:     60,
			},
		},
		Caption: map[string]CaptionConfig{
			"OpenAICaption": {
				Type:      "openai",
				ModelName: "gpt-4o-mini",
				BaseURL:   "https://api.openai.com/v1",
				APIKey:    "${OPENAI_API_KEY}",
				Timeout:   45,
			},
		},
		Detector: map[string]DetectorConfig{
			"HTTPDetector": {
				Type:    "http",
				URL:     "${DETECTOR_URL}",
				APIKey:  "${DETECTOR_API_KEY}",
				Timeout: 30,
			},
		},
		TTS: map[string]TTSConfig{
			"EdgeTTS": {
				Type:   "edge",
				Voice:  "en-US-AriaNeural",
				Rate:   "+0%",
				Volume: "+0%",
			},
		},
	}
}

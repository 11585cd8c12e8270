package config

import (
	"pixelsage-server/internal/platform/logging"
)

type Config struct {
	Server   ServerConfig              `yaml:"server"`
	Log      logging.Config            `yaml:"log"`
	Upload   UploadConfig              `yaml:"upload"`
	Analysis AnalysisConfig            `yaml:"analysis"`
	Selected SelectedConfig            `yaml:"selected_module"`
	LLM      map[string]LLMConfig      `yaml:"LLM"`
	Caption  map[string]CaptionConfig  `yaml:"Caption"`
	Detector map[string]DetectorConfig `yaml:"Detector"`
	TTS      map[string]TTSConfig      `yaml:"TTS"`
}

type ServerConfig struct {
	IP        string   `yaml:"ip"`
	Port      int      `yaml:"port"`
	StaticDir string   `yaml:"static_dir"`
	CORS      []string `yaml:"cors_origins"`
}

type UploadConfig struct {
	MaxFileSize        int64    `yaml:"max_file_size"`
	MaxMedicalFileSize int64    `yaml:"max_medical_file_size"`
	AllowedFormats     []string `yaml:"allowed_formats"`
	MedicalFormats     []string `yaml:"medical_formats"`
	TempDir            string   `yaml:"temp_dir"`
}

type AnalysisConfig struct {
	DetectionThreshold float64 `yaml:"detection_threshold"`
	DominantColors     int     `yaml:"dominant_colors"`
	MinAltTextWords    int     `yaml:"min_alt_text_words"`
	DownsampleEdge     int     `yaml:"downsample_edge"`
}

type SelectedConfig struct {
	LLM      string `yaml:"LLM"`
	Caption  string `yaml:"Caption"`
	Detector string `yaml:"Detector"`
	TTS      string `yaml:"TTS"`
}

type LLMConfig struct {
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     int     `yaml:"timeout_seconds"`
}

type CaptionConfig struct {
	Type      string `yaml:"type"`
	ModelName string `yaml:"model_name"`
	BaseURL   string `yaml:"url"`
	APIKey    string `yaml:"api_key"`
	Timeout   int    `yaml:"timeout_seconds"`
}

type DetectorConfig struct {
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout_seconds"`
}

type TTSConfig struct {
	Type   string `yaml:"type"`
	Voice  string `yaml:"voice"`
	Rate   string `yaml:"rate"`
	Volume string `yaml:"volume"`
}

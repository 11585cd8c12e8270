package eventbus

import "time"

const (
	// Analysis lifecycle
	EventAnalysisStarted   = "analysis:started"
	EventAnalysisCompleted = "analysis:completed"
	EventAnalysisFailed    = "analysis:failed"
	EventAnalysisDegraded  = "analysis:degraded"

	// Provider calls
	EventGenerationStarted   = "generation:started"
	EventGenerationCompleted = "generation:completed"
	EventGenerationFailed    = "generation:failed"

	// TTS
	EventSpeechSynthesized = "speech:synthesized"
	EventSpeechFailed      = "speech:failed"

	// System
	EventSystemError = "system:error"
	EventSystemInfo  = "system:info"
)

type AnalysisEventData struct {
	RequestID string        `json:"request_id"`
	Operation string        `json:"operation"`
	Filename  string        `json:"filename,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// DegradedEventData records a soft fallback, such as the caption sentinel or
// an empty detection list taken when a provider was unavailable.
type DegradedEventData struct {
	RequestID string `json:"request_id"`
	Component string `json:"component"`
	Fallback  string `json:"fallback"`
	Reason    string `json:"reason,omitempty"`
}

type GenerationEventData struct {
	RequestID string        `json:"request_id"`
	Provider  string        `json:"provider"`
	Model     string        `json:"model"`
	Duration  time.Duration `json:"duration,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type SpeechEventData struct {
	RequestID string        `json:"request_id"`
	Voice     string        `json:"voice"`
	Bytes     int           `json:"bytes"`
	AudioLen  time.Duration `json:"audio_len,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type SystemEventData struct {
	Level   string      `json:"level"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

package services

// Error codes returned to clients alongside failed results.
const (
	CodeNoFile          = "NO_FILE"
	CodeEmptyFile       = "EMPTY_FILE"
	CodeInvalidType     = "INVALID_TYPE"
	CodeInvalidImage    = "INVALID_IMAGE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeProcessingError = "PROCESSING_ERROR"
	CodeContextError    = "CONTEXT_GENERATION_ERROR"
	CodeCaptionError    = "CAPTION_GENERATION_ERROR"
	CodeSEOError        = "SEO_GENERATION_ERROR"
	CodeAnalysisError   = "ANALYSIS_ERROR"
	CodeSpeechError     = "SPEECH_GENERATION_ERROR"
	CodeEmptyText       = "EMPTY_TEXT_ERROR"
	CodeServerError     = "SERVER_ERROR"
)

// ServiceResult is the tagged outcome of a service pipeline. Exactly one of
// Data or Error is meaningful, selected by Success.
type ServiceResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries a human message and a machine code.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Ok wraps data in a successful result.
func Ok(data interface{}) ServiceResult {
	return ServiceResult{Success: true, Data: data}
}

// Fail builds a failed result with a machine code.
func Fail(code, message string) ServiceResult {
	return ServiceResult{
		Success: false,
		Error:   &ErrorInfo{Message: message, Code: code},
	}
}

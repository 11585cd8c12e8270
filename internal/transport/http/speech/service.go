package speech

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pixelsage-server/internal/app/services"
	"pixelsage-server/internal/core/providers/tts"
	"pixelsage-server/internal/platform/errors"
	"pixelsage-server/internal/platform/logging"
	httptransport "pixelsage-server/internal/transport/http"
)

// Service exposes text to speech synthesis over HTTP.
type Service struct {
	provider tts.Provider
	logger   *logging.Logger
}

// NewService wires the speech handler.
func NewService(provider tts.Provider, logger *logging.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// RegisterRoutes attaches the speech endpoint on the engine root.
func (s *Service) RegisterRoutes(router *httptransport.Router) {
	router.Engine.POST("/text-to-speech", s.handleSynthesize)
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

// handleSynthesize turns the request text into an mp3 attachment.
func (s *Service) handleSynthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondFlatError(c, http.StatusBadRequest, "No text provided")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		httptransport.RespondFlatError(c, http.StatusBadRequest, "No text provided")
		return
	}
	if s.provider == nil {
		httptransport.RespondError(c, services.CodeSpeechError, "speech synthesis is not configured")
		return
	}

	result, err := s.provider.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.ErrorTag("TTS", "synthesis failed: %v", err)
		if errors.IsKind(err, errors.KindValidation) {
			httptransport.RespondError(c, services.CodeEmptyText, err.Error())
			return
		}
		httptransport.RespondError(c, services.CodeSpeechError, err.Error())
		return
	}

	s.logger.InfoTag("TTS", "synthesized %d bytes (%s)", len(result.Audio), result.Duration)
	c.Header("Content-Disposition", `attachment; filename="speech.mp3"`)
	c.Data(http.StatusOK, "audio/mp3", result.Audio)
}

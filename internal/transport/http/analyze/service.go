package analyze

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pixelsage-server/internal/app/services"
	"pixelsage-server/internal/domain/eventbus"
	"pixelsage-server/internal/domain/image"
	"pixelsage-server/internal/platform/logging"
	httptransport "pixelsage-server/internal/transport/http"
)

// Service exposes the image analysis pipelines over HTTP.
type Service struct {
	analysis *services.AnalysisService
	social   *services.SocialService
	seo      *services.SEOService
	medical  *services.MedicalService

	validator        *image.Validator
	medicalValidator *image.Validator
	store            *image.TempStore
	logger           *logging.Logger
}

// NewService wires the analysis handlers.
func NewService(
	analysis *services.AnalysisService,
	social *services.SocialService,
	seo *services.SEOService,
	medical *services.MedicalService,
	validator, medicalValidator *image.Validator,
	store *image.TempStore,
	logger *logging.Logger,
) *Service {
	return &Service{
		analysis:         analysis,
		social:           social,
		seo:              seo,
		medical:          medical,
		validator:        validator,
		medicalValidator: medicalValidator,
		store:            store,
		logger:           logger,
	}
}

// RegisterRoutes attaches the analysis endpoints. Legacy paths live on the
// engine root, newer ones under /api.
func (s *Service) RegisterRoutes(router *httptransport.Router) {
	router.API.POST("/analyze/general", s.handleGeneral)
	router.API.POST("/analyze-medical-image", s.handleMedical)
	router.API.POST("/social-media/analyze", s.handleSocialVision)

	router.Engine.POST("/social-media", s.handleSocial)
	router.Engine.POST("/seo", s.handleSEO)
	router.Engine.POST("/image-analyzer", s.handleImageAnalyzer)
	router.Engine.POST("/advanced-analysis", s.handleAdvanced)
}

var formatMIMETypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"dcm":  "application/dicom",
}

type upload struct {
	data     []byte
	mimeType string
	filename string
}

// observe brackets a pipeline run with the analysis lifecycle events so
// subscribers see every request start and its outcome.
func (s *Service) observe(ctx context.Context, operation, filename string, fn func(context.Context) services.ServiceResult) services.ServiceResult {
	requestID := uuid.NewString()
	start := time.Now()
	eventbus.Publish(eventbus.EventAnalysisStarted, eventbus.AnalysisEventData{
		RequestID: requestID,
		Operation: operation,
		Filename:  filename,
	})

	result := fn(ctx)

	data := eventbus.AnalysisEventData{
		RequestID: requestID,
		Operation: operation,
		Filename:  filename,
		Duration:  time.Since(start),
	}
	if result.Success {
		eventbus.Publish(eventbus.EventAnalysisCompleted, data)
	} else {
		data.Error = result.Error.Message
		eventbus.Publish(eventbus.EventAnalysisFailed, data)
	}
	return result
}

// readUpload validates the named form file and stages it through the temp
// store. A nil upload means the request was already answered.
func (s *Service) readUpload(c *gin.Context, field string, validator *image.Validator) (*upload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		httptransport.RespondError(c, services.CodeNoFile, "no image file provided")
		return nil, false
	}
	return s.stageUpload(c, header, validator, httptransport.RespondError)
}

// readUploadFlat is readUpload for endpoints answering with bare errors.
func (s *Service) readUploadFlat(c *gin.Context, field string, validator *image.Validator) (*upload, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		httptransport.RespondFlatError(c, http.StatusBadRequest, "no image file provided")
		return nil, false
	}
	respond := func(c *gin.Context, code, message string) {
		status := http.StatusBadRequest
		if code == services.CodeProcessingError {
			status = http.StatusInternalServerError
		}
		httptransport.RespondFlatError(c, status, message)
	}
	return s.stageUpload(c, header, validator, respond)
}

func (s *Service) stageUpload(
	c *gin.Context,
	header *multipart.FileHeader,
	validator *image.Validator,
	respond func(c *gin.Context, code, message string),
) (*upload, bool) {
	file, err := header.Open()
	if err != nil {
		respond(c, services.CodeProcessingError, "cannot open uploaded file")
		return nil, false
	}
	defer file.Close()

	result := validator.Validate(header.Filename, file, header.Size)
	if !result.IsValid {
		respond(c, rejectCode(result.Reason), result.Error.Error())
		return nil, false
	}

	path, cleanup, err := s.store.Save(header.Filename, file)
	if err != nil {
		respond(c, services.CodeProcessingError, "cannot stage uploaded file")
		return nil, false
	}
	defer cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		respond(c, services.CodeProcessingError, "cannot read staged file")
		return nil, false
	}
	if len(data) == 0 {
		respond(c, services.CodeEmptyFile, "uploaded file is empty")
		return nil, false
	}

	mimeType, ok := formatMIMETypes[result.Format]
	if !ok {
		mimeType = "application/octet-stream"
	}
	return &upload{data: data, mimeType: mimeType, filename: header.Filename}, true
}

func rejectCode(reason image.RejectReason) string {
	switch reason {
	case image.RejectNoFile:
		return services.CodeNoFile
	case image.RejectEmptyFilename:
		return services.CodeEmptyFile
	case image.RejectUnsupportedExtension:
		return services.CodeInvalidType
	case image.RejectUnrecognizedFormat:
		return services.CodeInvalidImage
	case image.RejectFileTooLarge:
		return services.CodeFileTooLarge
	default:
		return services.CodeProcessingError
	}
}

// handleGeneral answers with top-level fields: the description, detected
// object names and dominant color hexes.
func (s *Service) handleGeneral(c *gin.Context) {
	up, ok := s.readUploadFlat(c, "image", s.validator)
	if !ok {
		return
	}

	result := s.observe(c.Request.Context(), "general", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.analysis.General(ctx, up.data, up.mimeType)
	})
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Error.Code == services.CodeInvalidImage {
			status = http.StatusBadRequest
		}
		httptransport.RespondFlatError(c, status, result.Error.Message)
		return
	}

	analysis := result.Data.(services.GeneralAnalysis)
	names := make([]string, len(analysis.Objects))
	for i, obj := range analysis.Objects {
		names[i] = obj.Name
	}
	hexes := make([]string, len(analysis.Colors))
	for i, col := range analysis.Colors {
		hexes[i] = col.Hex
	}

	httptransport.RespondFlat(c, gin.H{
		"description": analysis.Description,
		"objects":     names,
		"colors":      hexes,
	})
}

func (s *Service) handleMedical(c *gin.Context) {
	up, ok := s.readUpload(c, "file", s.medicalValidator)
	if !ok {
		return
	}

	extraContext := c.PostForm("context")
	result := s.observe(c.Request.Context(), "medical", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.medical.Analyze(ctx, up.data, up.mimeType, extraContext)
	})
	httptransport.RespondResult(c, result)
}

func (s *Service) handleSocial(c *gin.Context) {
	up, ok := s.readUpload(c, "image", s.validator)
	if !ok {
		return
	}
	httptransport.RespondResult(c, s.observe(c.Request.Context(), "social_media", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.social.Analyze(ctx, up.data, up.mimeType)
	}))
}

func (s *Service) handleSocialVision(c *gin.Context) {
	up, ok := s.readUpload(c, "image", s.validator)
	if !ok {
		return
	}
	httptransport.RespondResult(c, s.observe(c.Request.Context(), "social_media_vision", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.social.AnalyzeVision(ctx, up.data, up.mimeType)
	}))
}

func (s *Service) handleSEO(c *gin.Context) {
	up, ok := s.readUpload(c, "image", s.validator)
	if !ok {
		return
	}
	httptransport.RespondResult(c, s.observe(c.Request.Context(), "seo", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.seo.AnalyzeImage(ctx, up.data, up.mimeType)
	}))
}

func (s *Service) handleImageAnalyzer(c *gin.Context) {
	up, ok := s.readUpload(c, "image", s.validator)
	if !ok {
		return
	}
	httptransport.RespondResult(c, s.observe(c.Request.Context(), "image_analyzer", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.analysis.ImageAnalyzer(ctx, up.data, up.mimeType)
	}))
}

func (s *Service) handleAdvanced(c *gin.Context) {
	up, ok := s.readUpload(c, "image", s.validator)
	if !ok {
		return
	}
	httptransport.RespondResult(c, s.observe(c.Request.Context(), "advanced", up.filename, func(ctx context.Context) services.ServiceResult {
		return s.analysis.Advanced(ctx, up.data, up.mimeType)
	}))
}

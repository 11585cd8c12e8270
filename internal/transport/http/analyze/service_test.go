package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pixelsage-server/internal/app/services"
	"pixelsage-server/internal/domain/eventbus"
	"pixelsage-server/internal/domain/image"
	httptransport "pixelsage-server/internal/transport/http"
)

func newTestRouter(t *testing.T) (*httptransport.Router, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	router := &httptransport.Router{
		Engine: engine,
		API:    engine.Group("/api"),
	}

	store, err := image.NewTempStore(t.TempDir())
	if err != nil {
		t.Fatalf("new temp store: %v", err)
	}
	validator := image.NewValidator([]string{"png", "jpg", "jpeg", "gif"}, 16<<20, nil)
	medicalValidator := image.NewValidator([]string{"png", "jpg", "jpeg", "gif", "tiff", "dcm"}, 32<<20, nil)

	svc := NewService(nil, nil, nil, nil, validator, medicalValidator, store, nil)
	svc.RegisterRoutes(router)
	return router, svc
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadRejections(t *testing.T) {
	router, _ := newTestRouter(t)

	exeContent := []byte{0x4D, 0x5A, 0x00, 0x00}
	corruptContent := []byte("definitely not an image")

	tests := []struct {
		name       string
		path       string
		field      string
		filename   string
		content    []byte
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing file",
			path:       "/social-media",
			wantStatus: http.StatusBadRequest,
			wantCode:   services.CodeNoFile,
		},
		{
			name:       "unsupported extension",
			path:       "/social-media",
			field:      "image",
			filename:   "payload.exe",
			content:    exeContent,
			wantStatus: http.StatusBadRequest,
			wantCode:   services.CodeInvalidType,
		},
		{
			name:       "corrupt image data",
			path:       "/social-media",
			field:      "image",
			filename:   "photo.png",
			content:    corruptContent,
			wantStatus: http.StatusBadRequest,
			wantCode:   services.CodeInvalidImage,
		},
		{
			name:       "medical endpoint uses file field",
			path:       "/api/analyze-medical-image",
			field:      "image",
			filename:   "scan.png",
			content:    corruptContent,
			wantStatus: http.StatusBadRequest,
			wantCode:   services.CodeNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.field == "" {
				req = httptest.NewRequest(http.MethodPost, tt.path, nil)
			} else {
				body, contentType := multipartBody(t, tt.field, tt.filename, tt.content)
				req = httptest.NewRequest(http.MethodPost, tt.path, body)
				req.Header.Set("Content-Type", contentType)
			}

			rec := httptest.NewRecorder()
			router.Engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var envelope struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if envelope.Success {
				t.Error("success = true, want false")
			}
			if envelope.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", envelope.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestGeneralEndpoint_FlatErrorShape(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/general", nil)
	rec := httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if _, hasEnvelope := body["success"]; hasEnvelope {
		t.Errorf("general endpoint must not use the envelope, got %v", body)
	}
	if body["error"] == "" || body["error"] == nil {
		t.Errorf("missing flat error message: %v", body)
	}
}

func TestObservePublishesLifecycleEvents(t *testing.T) {
	_, svc := newTestRouter(t)

	var started, completed, failed []eventbus.AnalysisEventData
	onStarted := func(data eventbus.AnalysisEventData) { started = append(started, data) }
	onCompleted := func(data eventbus.AnalysisEventData) { completed = append(completed, data) }
	onFailed := func(data eventbus.AnalysisEventData) { failed = append(failed, data) }

	for topic, fn := range map[string]interface{}{
		eventbus.EventAnalysisStarted:   onStarted,
		eventbus.EventAnalysisCompleted: onCompleted,
		eventbus.EventAnalysisFailed:    onFailed,
	} {
		if err := eventbus.Subscribe(topic, fn); err != nil {
			t.Fatalf("subscribe %s: %v", topic, err)
		}
	}
	defer func() {
		eventbus.Get().Unsubscribe(eventbus.EventAnalysisStarted, onStarted)
		eventbus.Get().Unsubscribe(eventbus.EventAnalysisCompleted, onCompleted)
		eventbus.Get().Unsubscribe(eventbus.EventAnalysisFailed, onFailed)
	}()

	result := svc.observe(context.Background(), "general", "photo.png", func(context.Context) services.ServiceResult {
		return services.Ok("payload")
	})
	if !result.Success {
		t.Fatal("observe must pass the result through")
	}
	if len(started) != 1 || len(completed) != 1 || len(failed) != 0 {
		t.Fatalf("events after success: started=%d completed=%d failed=%d", len(started), len(completed), len(failed))
	}
	if started[0].RequestID == "" || started[0].RequestID != completed[0].RequestID {
		t.Errorf("request id mismatch: started=%q completed=%q", started[0].RequestID, completed[0].RequestID)
	}
	if completed[0].Operation != "general" || completed[0].Filename != "photo.png" {
		t.Errorf("completed event = %+v", completed[0])
	}

	result = svc.observe(context.Background(), "seo", "photo.png", func(context.Context) services.ServiceResult {
		return services.Fail(services.CodeProcessingError, "model offline")
	})
	if result.Success {
		t.Fatal("observe must pass the failure through")
	}
	if len(failed) != 1 {
		t.Fatalf("events after failure: failed=%d", len(failed))
	}
	if failed[0].Error != "model offline" || failed[0].Operation != "seo" {
		t.Errorf("failed event = %+v", failed[0])
	}
}

func TestRejectCode(t *testing.T) {
	tests := []struct {
		reason image.RejectReason
		want   string
	}{
		{image.RejectNoFile, services.CodeNoFile},
		{image.RejectEmptyFilename, services.CodeEmptyFile},
		{image.RejectUnsupportedExtension, services.CodeInvalidType},
		{image.RejectUnrecognizedFormat, services.CodeInvalidImage},
		{image.RejectFileTooLarge, services.CodeFileTooLarge},
	}
	for _, tt := range tests {
		if got := rejectCode(tt.reason); got != tt.want {
			t.Errorf("rejectCode(%v) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

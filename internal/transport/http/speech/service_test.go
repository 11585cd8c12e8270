package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pixelsage-server/internal/core/providers/tts"
	"pixelsage-server/internal/platform/errors"
	httptransport "pixelsage-server/internal/transport/http"
)

type fakeTTS struct {
	audio []byte
	err   error
}

func (f *fakeTTS) Initialize() error { return nil }
func (f *fakeTTS) Cleanup() error    { return nil }

func (f *fakeTTS) Synthesize(ctx context.Context, text string) (*tts.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tts.Result{Audio: f.audio, Duration: time.Second}, nil
}

func newTestRouter(provider tts.Provider) *httptransport.Router {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	router := &httptransport.Router{
		Engine: engine,
		API:    engine.Group("/api"),
	}
	NewService(provider, nil).RegisterRoutes(router)
	return router
}

func TestSynthesize_EmptyText(t *testing.T) {
	router := newTestRouter(&fakeTTS{audio: []byte("mp3")})

	tests := []struct {
		name string
		body string
	}{
		{"missing body", ""},
		{"empty text", `{"text": ""}`},
		{"whitespace text", `{"text": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/text-to-speech", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.Engine.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if body["error"] != "No text provided" {
				t.Errorf("error = %q, want %q", body["error"], "No text provided")
			}
		})
	}
}

func TestSynthesize_ReturnsAttachment(t *testing.T) {
	router := newTestRouter(&fakeTTS{audio: []byte("fake mp3 bytes")})

	req := httptest.NewRequest(http.MethodPost, "/text-to-speech", strings.NewReader(`{"text": "hello world"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mp3" {
		t.Errorf("Content-Type = %q, want audio/mp3", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "speech.mp3") {
		t.Errorf("Content-Disposition = %q, want speech.mp3 attachment", got)
	}
	if rec.Body.String() != "fake mp3 bytes" {
		t.Errorf("body = %q, want raw audio", rec.Body.String())
	}
}

func TestSynthesize_ValidationErrorMapsTo400(t *testing.T) {
	provider := &fakeTTS{err: errors.New(errors.KindValidation, "synthesize", "text cannot be empty")}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodPost, "/text-to-speech", strings.NewReader(`{"text": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestSynthesize_ProviderUnavailable(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/text-to-speech", strings.NewReader(`{"text": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

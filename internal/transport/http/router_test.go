package httptransport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pixelsage-server/internal/app/services"
	"pixelsage-server/internal/platform/config"
)

func TestBuildRequiresConfig(t *testing.T) {
	if _, err := Build(Options{}); err == nil {
		t.Fatal("Build() expected error without config")
	}
}

func TestRecoveryReturnsServerErrorEnvelope(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.StaticDir = ""

	router, err := Build(Options{Config: cfg})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	router.Engine.GET("/boom", func(c *gin.Context) {
		panic("handler exploded")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	router.Engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
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
	if envelope.Error.Code != services.CodeServerError {
		t.Errorf("code = %q, want %q", envelope.Error.Code, services.CodeServerError)
	}
}

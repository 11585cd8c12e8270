package httptransport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pixelsage-server/internal/app/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{services.CodeNoFile, http.StatusBadRequest},
		{services.CodeEmptyFile, http.StatusBadRequest},
		{services.CodeInvalidType, http.StatusBadRequest},
		{services.CodeInvalidImage, http.StatusBadRequest},
		{services.CodeEmptyText, http.StatusBadRequest},
		{services.CodeFileTooLarge, http.StatusRequestEntityTooLarge},
		{services.CodeProcessingError, http.StatusInternalServerError},
		{services.CodeSEOError, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := statusFor(tt.code); got != tt.want {
				t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRespondResult_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondResult(c, services.Ok(map[string]string{"caption": "a dog"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
	if body.Data["caption"] != "a dog" {
		t.Errorf("data = %v, want caption payload", body.Data)
	}
}

func TestRespondResult_Failure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondResult(c, services.Fail(services.CodeInvalidType, "unsupported file extension"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Error.Code != services.CodeInvalidType {
		t.Errorf("code = %q, want %q", body.Error.Code, services.CodeInvalidType)
	}
	if body.Error.Message != "unsupported file extension" {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestRespondFlatError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondFlatError(c, http.StatusBadRequest, "no image file provided")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["error"] != "no image file provided" {
		t.Errorf("body = %v", body)
	}
}

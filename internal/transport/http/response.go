package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pixelsage-server/internal/app/services"
)

// statusFor maps a service error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case services.CodeNoFile,
		services.CodeEmptyFile,
		services.CodeInvalidType,
		services.CodeInvalidImage,
		services.CodeEmptyText:
		return http.StatusBadRequest
	case services.CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// RespondResult writes a service result as the standard envelope. Successful
// results embed their payload under data; failures carry message and code.
func RespondResult(c *gin.Context, result services.ServiceResult) {
	if result.Success {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    result.Data,
		})
		return
	}
	RespondError(c, result.Error.Code, result.Error.Message)
}

// RespondError writes a failure envelope with the status derived from code.
func RespondError(c *gin.Context, code, message string) {
	c.JSON(statusFor(code), gin.H{
		"success": false,
		"error": gin.H{
			"message": message,
			"code":    code,
		},
	})
}

// RespondFlat writes the payload without the envelope, for endpoints whose
// clients expect top-level fields.
func RespondFlat(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// RespondFlatError writes a bare error object for the same endpoints.
func RespondFlatError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

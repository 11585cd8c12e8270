package status

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"pixelsage-server/internal/platform/logging"
	httptransport "pixelsage-server/internal/transport/http"
)

// Providers reports which backends came up during bootstrap.
type Providers struct {
	LLM      bool `json:"llm"`
	Caption  bool `json:"caption"`
	Detector bool `json:"detector"`
	TTS      bool `json:"tts"`
}

// Service exposes runtime health over HTTP.
type Service struct {
	startedAt time.Time
	providers Providers
	logger    *logging.Logger
}

// NewService wires the status handler.
func NewService(providers Providers, logger *logging.Logger) *Service {
	return &Service{
		startedAt: time.Now(),
		providers: providers,
		logger:    logger,
	}
}

// RegisterRoutes attaches the status endpoint under /api.
func (s *Service) RegisterRoutes(router *httptransport.Router) {
	router.API.GET("/status", s.handleStatus)
}

func (s *Service) handleStatus(c *gin.Context) {
	payload := gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"providers":      s.providers,
	}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		payload["cpu_percent"] = percentages[0]
	} else if err != nil {
		s.logger.WarnTag("STATUS", "cpu sample failed: %v", err)
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		payload["memory"] = gin.H{
			"total":        vm.Total,
			"used":         vm.Used,
			"used_percent": vm.UsedPercent,
		}
	} else {
		s.logger.WarnTag("STATUS", "memory sample failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"pixelsage-server/internal/app/services"
	"pixelsage-server/internal/core/providers/caption"
	"pixelsage-server/internal/core/providers/detector"
	"pixelsage-server/internal/core/providers/llm"
	"pixelsage-server/internal/core/providers/tts"
	"pixelsage-server/internal/domain/eventbus"
	domainimage "pixelsage-server/internal/domain/image"
	platformconfig "pixelsage-server/internal/platform/config"
	platformerrors "pixelsage-server/internal/platform/errors"
	platformlogging "pixelsage-server/internal/platform/logging"
	httptransport "pixelsage-server/internal/transport/http"
	httpanalyze "pixelsage-server/internal/transport/http/analyze"
	httpspeech "pixelsage-server/internal/transport/http/speech"
	httpstatus "pixelsage-server/internal/transport/http/status"

	_ "pixelsage-server/internal/core/providers/llm/gemini"
	_ "pixelsage-server/internal/core/providers/llm/openai"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger

	llmProvider      llm.Provider
	captionProvider  caption.Provider
	detectorProvider detector.Provider
	ttsProvider      tts.Provider
}

/// Run starts the full service lifecycle: configuration, providers, HTTP
// transport and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	if state.llmProvider == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"generative provider not initialised",
		)
	}

	defer cleanupProviders(state)

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("BOOT", "server stopped cleanly")
	logger.Close()
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "eventbus:attach-log-sink",
			Title:     "Attach event log sink",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   attachLogSinkStep,
		},
		{
			ID:        "providers:init",
			Title:     "Initialise model providers",
			DependsOn: []string{"logging:init-provider", "eventbus:attach-log-sink"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initProvidersStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if stderrors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().
		WithDotEnv(true).
		WithPath("config.yaml").
		Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	if state.configPath == "" {
		state.configPath = "defaults"
	}
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state == nil || state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(&state.config.Log)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialize logging provider", err)
	}

	state.logger = logger
	platformlogging.DefaultLogger = logger
	// Libraries logging through slog share the structured sink.
	slog.SetDefault(logger.Slog())

	logger.InfoTag("BOOT", "logging ready [%s] config=%s", state.config.Log.Level, state.configPath)
	return nil
}

// attachLogSinkStep routes bus events into the structured log so degraded
// pipelines and provider failures show up without a metrics stack.
func attachLogSinkStep(_ context.Context, state *appState) error {
	logger := state.logger

	if err := eventbus.SubscribeAsync(eventbus.EventAnalysisCompleted, func(data eventbus.AnalysisEventData) {
		logger.InfoTag("ANALYZE", "%s completed in %s (request=%s file=%s)", data.Operation, data.Duration, data.RequestID, data.Filename)
	}); err != nil {
		return err
	}
	if err := eventbus.SubscribeAsync(eventbus.EventAnalysisFailed, func(data eventbus.AnalysisEventData) {
		logger.WarnTag("ANALYZE", "%s failed after %s (request=%s): %s", data.Operation, data.Duration, data.RequestID, data.Error)
	}); err != nil {
		return err
	}
	if err := eventbus.SubscribeAsync(eventbus.EventSystemError, func(data eventbus.SystemEventData) {
		logger.ErrorTag("BOOT", "%s", data.Message)
	}); err != nil {
		return err
	}
	if err := eventbus.SubscribeAsync(eventbus.EventSystemInfo, func(data eventbus.SystemEventData) {
		logger.InfoTag("BOOT", "%s", data.Message)
	}); err != nil {
		return err
	}
	if err := eventbus.SubscribeAsync(eventbus.EventAnalysisDegraded, func(data eventbus.DegradedEventData) {
		logger.WarnTag("ANALYZE", "degraded %s: %s (%s)", data.Component, data.Fallback, data.Reason)
	}); err != nil {
		return err
	}
	if err := eventbus.SubscribeAsync(eventbus.EventGenerationFailed, func(data eventbus.GenerationEventData) {
		logger.WarnTag("LLM", "generation failed provider=%s model=%s: %s", data.Provider, data.Model, data.Error)
	}); err != nil {
		return err
	}
	if err := eventbus.SubscribeAsync(eventbus.EventSpeechFailed, func(data eventbus.SpeechEventData) {
		logger.WarnTag("TTS", "synthesis failed voice=%s: %s", data.Voice, data.Error)
	}); err != nil {
		return err
	}
	return eventbus.SubscribeAsync(eventbus.EventSpeechSynthesized, func(data eventbus.SpeechEventData) {
		logger.DebugTag("TTS", "synthesized voice=%s bytes=%d len=%s", data.Voice, data.Bytes, data.AudioLen)
	})
}

// initProvidersStep builds the selected providers. The generative provider is
// required; caption, detector and speech come up best-effort so the analysis
// pipelines can degrade instead of refusing to start.
func initProvidersStep(_ context.Context, state *appState) error {
	config := state.config
	logger := state.logger

	llmEntry, ok := config.LLM[config.Selected.LLM]
	if !ok {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"providers:init",
			fmt.Sprintf("selected LLM %s has no configuration", config.Selected.LLM),
		)
	}
	llmProvider, err := llm.Create(llmEntry.Type, &llm.Config{
		Name:        config.Selected.LLM,
		Type:        llmEntry.Type,
		ModelName:   llmEntry.ModelName,
		BaseURL:     llmEntry.BaseURL,
		APIKey:      llmEntry.APIKey,
		Temperature: llmEntry.Temperature,
		MaxTokens:   llmEntry.MaxTokens,
		Timeout:     llmEntry.Timeout,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "providers:init", "failed to create LLM provider", err)
	}
	if err := llmProvider.Initialize(); err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "providers:init", "failed to initialize LLM provider", err)
	}
	state.llmProvider = llmProvider
	logger.InfoTag("LLM", "provider ready: %s (%s)", config.Selected.LLM, llmEntry.ModelName)

	if captionEntry, ok := config.Caption[config.Selected.Caption]; ok {
		provider, err := caption.Create(captionEntry.Type, &caption.Config{
			Name:      config.Selected.Caption,
			Type:      captionEntry.Type,
			ModelName: captionEntry.ModelName,
			BaseURL:   captionEntry.BaseURL,
			APIKey:    captionEntry.APIKey,
			Timeout:   captionEntry.Timeout,
		})
		if err == nil {
			err = provider.Initialize()
		}
		if err != nil {
			logger.WarnTag("VLM", "caption provider unavailable, pipelines will degrade: %v", err)
		} else {
			state.captionProvider = provider
			logger.InfoTag("VLM", "caption provider ready: %s", config.Selected.Caption)
		}
	} else {
		logger.WarnTag("VLM", "no caption provider configured")
	}

	if detectorEntry, ok := config.Detector[config.Selected.Detector]; ok && detectorEntry.URL != "" {
		provider, err := detector.Create(detectorEntry.Type, &detector.Config{
			Name:    config.Selected.Detector,
			Type:    detectorEntry.Type,
			URL:     detectorEntry.URL,
			APIKey:  detectorEntry.APIKey,
			Timeout: detectorEntry.Timeout,
		})
		if err == nil {
			err = provider.Initialize()
		}
		if err != nil {
			logger.WarnTag("DETECTOR", "detector unavailable, detections will be empty: %v", err)
		} else {
			state.detectorProvider = provider
			logger.InfoTag("DETECTOR", "detector ready: %s", config.Selected.Detector)
		}
	} else {
		logger.WarnTag("DETECTOR", "no detector configured, detections will be empty")
	}

	if ttsEntry, ok := config.TTS[config.Selected.TTS]; ok {
		provider, err := tts.Create(ttsEntry.Type, &tts.Config{
			Name:   config.Selected.TTS,
			Type:   ttsEntry.Type,
			Voice:  ttsEntry.Voice,
			Rate:   ttsEntry.Rate,
			Volume: ttsEntry.Volume,
		})
		if err == nil {
			err = provider.Initialize()
		}
		if err != nil {
			logger.WarnTag("TTS", "speech provider unavailable: %v", err)
		} else {
			state.ttsProvider = provider
			logger.InfoTag("TTS", "speech provider ready: %s", config.Selected.TTS)
		}
	}

	eventbus.Publish(eventbus.EventSystemInfo, eventbus.SystemEventData{
		Level:   "info",
		Message: "model providers initialised",
		Data: map[string]bool{
			"caption":  state.captionProvider != nil,
			"detector": state.detectorProvider != nil,
			"tts":      state.ttsProvider != nil,
		},
	})
	return nil
}

func cleanupProviders(state *appState) {
	logger := state.logger
	for _, cleanup := range []struct {
		name string
		fn   func() error
	}{
		{"tts", safeCleanup(state.ttsProvider)},
		{"detector", safeCleanup(state.detectorProvider)},
		{"caption", safeCleanup(state.captionProvider)},
		{"llm", safeCleanup(state.llmProvider)},
	} {
		if cleanup.fn == nil {
			continue
		}
		if err := cleanup.fn(); err != nil {
			logger.WarnTag("BOOT", "%s provider cleanup failed: %v", cleanup.name, err)
		}
	}
}

type cleanable interface {
	Cleanup() error
}

func safeCleanup(p interface{}) func() error {
	c, ok := p.(cleanable)
	if !ok || c == nil {
		return nil
	}
	return c.Cleanup
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	config := state.config
	logger := state.logger

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"message": "not found",
				"code":    http.StatusNotFound,
			},
		})
	})

	store, err := domainimage.NewTempStore(config.Upload.TempDir)
	if err != nil {
		return nil, err
	}
	validator := domainimage.NewValidator(config.Upload.AllowedFormats, config.Upload.MaxFileSize, logger)
	medicalValidator := domainimage.NewValidator(config.Upload.MedicalFormats, config.Upload.MaxMedicalFileSize, logger)

	analyzer := services.NewAnalyzer(
		state.captionProvider,
		state.detectorProvider,
		config.Analysis.DetectionThreshold,
		config.Analysis.DominantColors,
		config.Analysis.DownsampleEdge,
		logger,
	)
	text := services.NewTextService(state.llmProvider, config.Analysis.MinAltTextWords, logger)

	analyzeService := httpanalyze.NewService(
		services.NewAnalysisService(analyzer, text, logger),
		services.NewSocialService(analyzer, text, logger),
		services.NewSEOService(analyzer, text, logger),
		services.NewMedicalService(analyzer, text, logger),
		validator,
		medicalValidator,
		store,
		logger,
	)
	speechService := httpspeech.NewService(state.ttsProvider, logger)
	statusService := httpstatus.NewService(httpstatus.Providers{
		LLM:      state.llmProvider != nil,
		Caption:  state.captionProvider != nil,
		Detector: state.detectorProvider != nil,
		TTS:      state.ttsProvider != nil,
	}, logger)

	analyzeService.RegisterRoutes(httpRouter)
	speechService.RegisterRoutes(httpRouter)
	statusService.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "listening on http://%s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			eventbus.Publish(eventbus.EventSystemError, eventbus.SystemEventData{
				Level:   "error",
				Message: fmt.Sprintf("http server failed: %v", err),
			})
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("BOOT", "shutdown signal received, cleaning up")

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("BOOT", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("BOOT", "all services stopped")
	case <-time.After(15 * time.Second):
		logger.ErrorTag("BOOT", "shutdown timed out, forcing exit")
		return stderrors.New("shutdown timed out")
	}
	return nil
}

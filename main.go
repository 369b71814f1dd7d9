package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-library/internal/covers"
	"media-library/internal/enrichment"
	"media-library/internal/handlers"
	"media-library/internal/library"
	"media-library/internal/logging"
	"media-library/internal/middleware"
	"media-library/internal/scanner"
	"media-library/internal/sorting"
	"media-library/internal/startup"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Open the library index
	idxStart := time.Now()
	idx, err := library.Open(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to open library index: %v", err)
	}
	defer idx.Close() //nolint:errcheck
	startup.LogIndexInit(time.Since(idxStart))

	// Background work (watcher, scans) stops when this context does.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	for _, dir := range config.SourceDirs {
		if _, err := idx.AddSource(rootCtx, dir); err != nil {
			logging.Warn("Failed to register source %s: %v", dir, err)
		}
	}

	// Scanner and watcher
	scanCfg := scanner.DefaultConfig()
	if config.ScanWorkers > 0 {
		scanCfg.Workers = config.ScanWorkers
	}
	scn := scanner.New(idx, scanCfg)

	startup.LogScannerInit(config.ScanInterval, config.PollInterval)
	watcher := scanner.NewWatcher(scn, config.ScanInterval)
	watcher.SetPollInterval(config.PollInterval)
	go watcher.Run(rootCtx)
	startup.LogScannerStarted()

	// Initial scan in the background so the server comes up immediately
	go func() {
		if _, err := scn.ScanAll(rootCtx); err != nil {
			logging.Warn("Initial scan failed: %v", err)
		}
	}()

	// Cover generator
	startup.LogCoversInit(config.CoversEnabled)
	if config.CoversEnabled {
		if err := covers.InitVips(); err != nil {
			logging.Warn("libvips unavailable, image covers fall back to pure Go decoding: %v", err)
		} else {
			defer covers.ShutdownVips()
		}
	}
	cov := covers.New(config.CoverCacheDir, config.CoverSize, config.CoversEnabled)

	// Enrichment
	var enrich *enrichment.Manager
	if config.EnrichmentEnabled {
		cache := enrichment.NewCache(config.EnrichmentCachePath, enrichment.DefaultCacheTTL)
		enrich = enrichment.NewManager(cache, enrichment.NewMusicBrainz(config.EnrichmentUserAgent))
	}

	// Handlers and router
	h := handlers.New(idx, scn, sorting.New(idx), cov, enrich, config.PlaylistDir, config.TokenPath)
	router := h.Router()

	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Middleware chain, innermost first: auth, metrics, logging, compression
	var handler http.Handler = router
	handler = h.AuthMiddleware(handler)
	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, rootCancel)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func handleShutdown(srv, metricsSrv *http.Server, stopBackground context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping watcher and scans")
	stopBackground()
	startup.LogShutdownStepComplete("Background work stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"

	"reels-server/internal/handlers"
	"reels-server/internal/library"
	"reels-server/internal/logging"
	"reels-server/internal/mediatypes"
	"reels-server/internal/metrics"
	"reels-server/internal/middleware"
	"reels-server/internal/startup"
)

func main() {
	app := &cli.App{
		Name:    "reels-server",
		Usage:   "index a directory of short videos and serve a searchable, seekable feed",
		Version: startup.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "root",
				Aliases:  []string{"r"},
				Usage:    "directory of video files to index and serve",
				EnvVars:  []string{"REELS_ROOT"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "address to listen on",
				Value:   "0.0.0.0",
				EnvVars: []string{"HOST"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "application port",
				Value:   "5179",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "metrics-port",
				Usage:   "Prometheus metrics port",
				Value:   "9090",
				EnvVars: []string{"METRICS_PORT"},
			},
			&cli.StringFlag{
				Name:    "extensions",
				Usage:   "comma-separated video extensions to index",
				Value:   ".mp4,.mov,.m4v,.webm",
				EnvVars: []string{"VIDEO_EXTENSIONS"},
			},
			&cli.StringFlag{
				Name:    "static-dir",
				Usage:   "directory of static web assets",
				Value:   "./static",
				EnvVars: []string{"STATIC_DIR"},
			},
			&cli.BoolFlag{
				Name:    "metrics-enabled",
				Usage:   "serve Prometheus metrics",
				Value:   true,
				EnvVars: []string{"METRICS_ENABLED"},
			},
			&cli.BoolFlag{
				Name:    "log-static-files",
				Usage:   "include static asset requests in the access log",
				EnvVars: []string{"LOG_STATIC_FILES"},
			},
			&cli.BoolFlag{
				Name:    "log-health-checks",
				Usage:   "include health probe requests in the access log",
				Value:   true,
				EnvVars: []string{"LOG_HEALTH_CHECKS"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		startup.LogFatal("%v", err)
	}
}

func run(c *cli.Context) error {
	startTime := time.Now()

	config, err := startup.LoadConfig(c)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	types := mediatypes.NewRegistry(mediatypes.ParseExtensionList(config.Extensions))

	// Initial catalog load blocks startup; the server only accepts traffic
	// with a live snapshot.
	startup.LogCatalogInit()
	loadStart := time.Now()
	lib, err := library.Open(context.Background(), config.RootDir, types)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	cat := lib.Current()
	startup.LogCatalogReady(len(cat.Entries), len(cat.Folders), time.Since(loadStart))

	h := handlers.New(lib, types)

	router := setupRouter(h, config.StaticDir)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	var collector *metrics.Collector
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)

		collector = metrics.NewCollector(lib, 30*time.Second)
		collector.Start()

		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", h.MetricsHandler()).Methods("GET")
		metricsSrv = &http.Server{
			Addr:        config.Host + ":" + config.MetricsPort,
			Handler:     metricsRouter,
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:        config.Host + ":" + config.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No write timeout: range responses for large videos can
		// legitimately stream for a long time.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, metricsSrv, collector)

	startup.LogServerStarted(startup.ServerConfig{
		Host:            config.Host,
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func setupRouter(h *handlers.Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/feed", h.GetFeed).Methods("GET")
	api.HandleFunc("/suggest", h.GetSuggest).Methods("GET")
	api.HandleFunc("/folders", h.GetFolders).Methods("GET")
	api.HandleFunc("/reindex", h.Reindex).Methods("POST")

	// Streaming and raw file access
	r.HandleFunc("/v/{id}", h.StreamVideo).Methods("GET", "HEAD")
	r.HandleFunc("/file/{path:.*}", h.GetFile).Methods("GET", "HEAD")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

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

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/your-org/clipfetch/internal/api"
	"github.com/your-org/clipfetch/internal/api/ws"
	"github.com/your-org/clipfetch/internal/config"
	"github.com/your-org/clipfetch/internal/fetch"
	"github.com/your-org/clipfetch/internal/issues"
	"github.com/your-org/clipfetch/internal/observability"
	"github.com/your-org/clipfetch/internal/queue"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting clipfetch", "port", cfg.Server.Port)

	ytdlp := fetch.NewClient(cfg.Download.YTDLPPath)
	ffmpeg := fetch.NewToolkit(cfg.Download.FFmpegPath, cfg.Download.FFprobePath)

	if err := ytdlp.Available(); err != nil {
		slog.Error("yt-dlp missing", "error", err)
		os.Exit(1)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if cfg.Download.UpdateOnBoot {
		slog.Info("updating yt-dlp...")
		if err := ytdlp.Update(startupCtx); err != nil {
			slog.Warn("yt-dlp self-update failed", "error", err)
		}
	}
	if err := ffmpeg.Available(startupCtx); err != nil {
		slog.Warn("ffmpeg not available; downloads will fail until it is installed", "error", err)
	}
	startupCancel()

	manager := fetch.NewManager(cfg.Download, ytdlp, ffmpeg)

	// WebSocket hub for progress events
	hub := ws.NewHub()
	go hub.Run()
	manager.AddSink(hub)

	routerCfg := api.RouterConfig{
		APIKey:    cfg.Server.APIKey,
		Debug:     cfg.Server.Debug,
		StaticDir: cfg.Server.StaticDir,
		MaxHeight: cfg.Download.MaxHeight,
		Manager:   manager,
		Hub:       hub,
		Sinks:     []fetch.EventSink{hub},
	}

	// Optional NATS event feed
	if cfg.NATS.URL != "" {
		producer, err := queue.NewProducer(cfg.NATS.URL)
		if err != nil {
			slog.Error("connect to nats", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		if err := producer.EnsureStream(context.Background()); err != nil {
			slog.Warn("ensure nats stream", "error", err)
		}
		manager.AddSink(producer)
		routerCfg.Sinks = append(routerCfg.Sinks, producer)
		routerCfg.NATSPing = producer.Ping
	}

	// Issue store: local files by default, object storage when configured
	switch cfg.Issues.Backend {
	case "minio":
		store, err := issues.NewObjectStore(cfg.MinIO)
		if err != nil {
			slog.Error("connect to minio", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			slog.Warn("ensure minio bucket", "error", err)
		}
		routerCfg.Issues = store
		routerCfg.MinIOPing = store.Ping
	default:
		store, err := issues.NewFileStore(cfg.Issues.Dir)
		if err != nil {
			slog.Error("create issue store", "error", err)
			os.Exit(1)
		}
		routerCfg.Issues = store
	}

	router := api.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// No write timeout: large video responses can legitimately take
		// minutes to stream to slow clients.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

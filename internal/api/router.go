package api

import (
	"context"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/clipfetch/internal/api/handlers"
	"github.com/your-org/clipfetch/internal/api/ws"
	"github.com/your-org/clipfetch/internal/auth"
	"github.com/your-org/clipfetch/internal/fetch"
	"github.com/your-org/clipfetch/internal/issues"
)

type RouterConfig struct {
	APIKey    string
	Debug     bool
	StaticDir string
	MaxHeight int

	Manager *fetch.Manager
	Issues  issues.Store
	Hub     *ws.Hub

	// Sinks receive issue-reported events alongside the download feed.
	Sinks []fetch.EventSink

	// Optional backend health checks; nil when not configured.
	NATSPing  func() error
	MinIOPing func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	systemH := handlers.NewSystemHandler(cfg.Manager.YTDLP(), cfg.Manager.FFmpeg(), cfg.StaticDir)
	if cfg.NATSPing != nil {
		systemH.WithNATSCheck(cfg.NATSPing)
	}
	if cfg.MinIOPing != nil {
		systemH.WithMinIOCheck(cfg.MinIOPing)
	}
	r.GET("/health", systemH.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ads.txt", systemH.AdsTxt)
	r.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))

	// Download API, gated by the optional key.
	authed := r.Group("/")
	authed.Use(auth.APIKeyMiddleware(cfg.APIKey))

	downloadH := handlers.NewDownloadHandler(cfg.Manager, cfg.Manager.FFmpeg())
	authed.POST("/download", downloadH.Download)

	formatsH := handlers.NewFormatsHandler(cfg.Manager.YTDLP(), cfg.MaxHeight)
	authed.POST("/debug-formats", formatsH.DebugFormats)

	issueH := handlers.NewIssueHandler(cfg.Issues, cfg.Sinks...)
	authed.POST("/report-issue", issueH.Report)

	authed.GET("/ws", cfg.Hub.HandleWS)

	return r
}

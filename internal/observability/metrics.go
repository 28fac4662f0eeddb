package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clipfetch",
		Name:      "downloads_total",
		Help:      "Total number of download requests by outcome",
	}, []string{"platform", "outcome"})

	DownloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clipfetch",
		Name:      "download_duration_seconds",
		Help:      "Wall time of the yt-dlp download stage",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"platform"})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clipfetch",
		Name:      "download_bytes_total",
		Help:      "Total bytes of video files served to callers",
	})

	ActiveDownloads = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "clipfetch",
		Name:      "active_downloads",
		Help:      "Number of downloads currently in flight",
	})

	IssuesReported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clipfetch",
		Name:      "issues_reported_total",
		Help:      "Total number of issue reports accepted",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clipfetch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "clipfetch",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)

package dto

// Download lifecycle event types broadcast over the WebSocket and the
// optional NATS feed.
const (
	EventDownloadStarted   = "download_started"
	EventDownloadProgress  = "download_progress"
	EventDownloadCompleted = "download_completed"
	EventDownloadFailed    = "download_failed"
	EventIssueReported     = "issue_reported"
)

// DownloadEvent describes one step of a download's lifecycle.
type DownloadEvent struct {
	Type      string  `json:"type"`
	RequestID string  `json:"request_id"`
	URL       string  `json:"url,omitempty"`
	Platform  string  `json:"platform,omitempty"`
	Percent   float64 `json:"percent,omitempty"`
	Filename  string  `json:"filename,omitempty"`
	Error     string  `json:"error,omitempty"`
	Timestamp string  `json:"timestamp"`
}

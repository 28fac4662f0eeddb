package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/clipfetch/internal/fetch"
	"github.com/your-org/clipfetch/internal/issues"
	"github.com/your-org/clipfetch/internal/observability"
	"github.com/your-org/clipfetch/pkg/dto"
)

type IssueHandler struct {
	store issues.Store
	sinks []fetch.EventSink
}

func NewIssueHandler(store issues.Store, sinks ...fetch.EventSink) *IssueHandler {
	return &IssueHandler{store: store, sinks: sinks}
}

// Report handles POST /report-issue.
func (h *IssueHandler) Report(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	required := []struct {
		field string
		value string
	}{
		{"type", req.Type},
		{"url", req.URL},
		{"description", req.Description},
	}
	for _, r := range required {
		if r.value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: " + r.field})
			return
		}
	}

	issue := issues.NewIssue(req.Type, req.URL, req.Description)
	if err := h.store.Save(c.Request.Context(), issue); err != nil {
		slog.Error("save issue", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to report issue"})
		return
	}

	observability.IssuesReported.Inc()
	slog.Info("new issue reported", "id", issue.ID, "type", issue.Type)

	for _, s := range h.sinks {
		s.PublishDownloadEvent(&dto.DownloadEvent{
			Type:      dto.EventIssueReported,
			RequestID: issue.ID,
			URL:       issue.URL,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, dto.IssueResponse{
		Message: "issue reported successfully",
		ID:      issue.ID,
	})
}

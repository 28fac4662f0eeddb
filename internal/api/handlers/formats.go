package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/clipfetch/internal/fetch"
	"github.com/your-org/clipfetch/pkg/dto"
)

// InfoExtractor fetches metadata without downloading. Satisfied by
// *fetch.Client.
type InfoExtractor interface {
	ExtractInfo(ctx context.Context, url string, opts fetch.Options) (*fetch.Info, error)
}

type FormatsHandler struct {
	extractor InfoExtractor
	maxHeight int
}

func NewFormatsHandler(extractor InfoExtractor, maxHeight int) *FormatsHandler {
	return &FormatsHandler{extractor: extractor, maxHeight: maxHeight}
}

// DebugFormats handles POST /debug-formats: lists the formats yt-dlp sees
// for a URL so format-selector issues can be diagnosed without a download.
func (h *FormatsHandler) DebugFormats(c *gin.Context) {
	rawURL := strings.TrimSpace(c.PostForm("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a URL"})
		return
	}

	opts := fetch.OptionsFor(rawURL, h.maxHeight)
	info, err := h.extractor.ExtractInfo(c.Request.Context(), rawURL, opts)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": messageForError(err)})
		return
	}
	if len(info.Formats) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not extract format information"})
		return
	}

	resp := dto.FormatsResponse{Formats: make([]dto.FormatInfo, 0, len(info.Formats))}
	for _, f := range info.Formats {
		resp.Formats = append(resp.Formats, dto.FormatInfo{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
			Filesize:   f.Filesize,
			TBR:        f.TBR,
		})
	}

	c.JSON(http.StatusOK, resp)
}

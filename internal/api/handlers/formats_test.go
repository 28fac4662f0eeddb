package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/clipfetch/internal/fetch"
	"github.com/your-org/clipfetch/pkg/dto"
)

func formatsRouter(e InfoExtractor) *gin.Engine {
	r := gin.New()
	r.POST("/debug-formats", NewFormatsHandler(e, 2160).DebugFormats)
	return r
}

func TestDebugFormats(t *testing.T) {
	extractor := &stubExtractor{info: &fetch.Info{
		ID: "abc",
		Formats: []fetch.Format{
			{FormatID: "137", Ext: "mp4", Resolution: "1920x1080", VCodec: "avc1", ACodec: "none", Filesize: 100, TBR: 4400},
			{FormatID: "140", Ext: "m4a", Resolution: "audio only", VCodec: "none", ACodec: "mp4a.40.2"},
		},
	}}
	r := formatsRouter(extractor)

	w := postForm(t, r, "/debug-formats", "url=https://www.youtube.com/watch?v=abc")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.FormatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Formats, 2)
	assert.Equal(t, "137", resp.Formats[0].FormatID)
	assert.Equal(t, "mp4a.40.2", resp.Formats[1].ACodec)
}

func TestDebugFormatsMissingURL(t *testing.T) {
	r := formatsRouter(&stubExtractor{})

	w := postForm(t, r, "/debug-formats", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDebugFormatsNoFormats(t *testing.T) {
	r := formatsRouter(&stubExtractor{info: &fetch.Info{ID: "abc"}})

	w := postForm(t, r, "/debug-formats", "url=https://example.com/v")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "format information")
}

func TestDebugFormatsExtractorError(t *testing.T) {
	r := formatsRouter(&stubExtractor{err: fmt.Errorf("%w: gone", fetch.ErrUnavailable)})

	w := postForm(t, r, "/debug-formats", "url=https://example.com/v")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

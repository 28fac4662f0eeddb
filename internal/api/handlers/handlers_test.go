package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/clipfetch/internal/fetch"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct {
	res        *fetch.Result
	err        error
	requestIDs []string
	cleanedUp  []string
}

func (s *stubFetcher) Fetch(_ context.Context, _, requestID string) (*fetch.Result, error) {
	s.requestIDs = append(s.requestIDs, requestID)
	return s.res, s.err
}

func (s *stubFetcher) ScheduleCleanup(dir string) *time.Timer {
	s.cleanedUp = append(s.cleanedUp, dir)
	return time.AfterFunc(time.Hour, func() {})
}

type stubToolkit struct {
	err error
}

func (s *stubToolkit) Available(context.Context) error { return s.err }

type stubExtractor struct {
	info *fetch.Info
	err  error
}

func (s *stubExtractor) ExtractInfo(context.Context, string, fetch.Options) (*fetch.Info, error) {
	return s.info, s.err
}

type stubProber struct {
	version string
	err     error
}

func (s *stubProber) Version(context.Context) (string, error) { return s.version, s.err }

func postForm(t *testing.T, r http.Handler, path string, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r http.Handler, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/clipfetch/internal/config"
)

func testManager(t *testing.T, cfg config.DownloadConfig) *Manager {
	t.Helper()
	return NewManager(cfg, NewClient("yt-dlp"), NewToolkit("ffmpeg", "ffprobe"))
}

func TestLocateDownloadPrefersMP4(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.info.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.mp4"), []byte("video"), 0o644))

	m := testManager(t, config.DownloadConfig{})
	path, err := m.locateDownload(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc.mp4"), path)
}

func TestLocateDownloadEmptyDir(t *testing.T) {
	m := testManager(t, config.DownloadConfig{})
	_, err := m.locateDownload(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoVideo)
}

func TestScheduleCleanup(t *testing.T) {
	dir, err := os.MkdirTemp(t.TempDir(), "dl-")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.mp4"), []byte("video"), 0o644))

	m := testManager(t, config.DownloadConfig{CleanupDelay: config.Duration(10 * time.Millisecond)})
	m.ScheduleCleanup(dir)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(dir)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestActiveCountStartsAtZero(t *testing.T) {
	m := testManager(t, config.DownloadConfig{})
	assert.Equal(t, 0, m.ActiveCount())
}

func TestAddSinkIgnoresNil(t *testing.T) {
	m := testManager(t, config.DownloadConfig{})
	m.AddSink(nil)
	assert.Empty(t, m.sinks)
}

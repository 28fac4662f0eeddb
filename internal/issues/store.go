// Package issues persists user bug reports as single JSON documents,
// written once and never mutated.
package issues

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Issue is one user-submitted report.
type Issue struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

// Store persists issue reports.
type Store interface {
	Save(ctx context.Context, issue *Issue) error
	List(ctx context.Context) ([]Issue, error)
}

// NewIssue builds a report with a timestamp-derived id and status "new".
func NewIssue(issueType, url, description string) *Issue {
	now := time.Now()
	return &Issue{
		ID:          now.Format("20060102150405"),
		Timestamp:   now,
		Type:        issueType,
		URL:         url,
		Description: description,
		Status:      "new",
	}
}

// FileStore writes each issue to <dir>/issue_<id>.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create issues dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(_ context.Context, issue *Issue) error {
	data, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal issue: %w", err)
	}

	path := filepath.Join(s.dir, issueFilename(issue.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write issue %s: %w", issue.ID, err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]Issue, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read issues dir: %w", err)
	}

	var out []Issue
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read issue %s: %w", e.Name(), err)
		}
		var issue Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			return nil, fmt.Errorf("parse issue %s: %w", e.Name(), err)
		}
		out = append(out, issue)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func issueFilename(id string) string {
	return "issue_" + id + ".json"
}

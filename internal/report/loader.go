// Package report loads the pre-computed analytics snapshot that the
// briefing pipeline renders from. The snapshot is produced and refreshed
// by a separate collection process; this package only reads it.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/audio-briefing-service/internal/core"
)

// Default applied when the snapshot omits a sentiment label.
const defaultSentimentLabel = "Mixed"

// ErrSnapshotPathEmpty indicates that the loader was built without a
// snapshot location.
var ErrSnapshotPathEmpty = errors.New("snapshot path cannot be empty")

// Loader reads one JSON snapshot document from a fixed filesystem
// location. Every Load call re-reads and re-parses the file; the
// document is small and read-only, so there is no cache to invalidate.
type Loader struct {
	path string
}

// NewLoader creates a snapshot loader for the given file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads, parses and normalizes the snapshot. A missing, unreadable
// or malformed file is fatal for the request: there is no fallback
// snapshot.
func (l *Loader) Load(_ context.Context) (*core.Snapshot, error) {
	if l.path == "" {
		return nil, ErrSnapshotPathEmpty
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot core.Snapshot

	err = json.Unmarshal(data, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}

	normalize(&snapshot)

	return &snapshot, nil
}

// normalize applies the documented defaults once, so downstream
// consumers never have to re-check for absent fields.
func normalize(snapshot *core.Snapshot) {
	if snapshot.SentimentStats.OverallLabel == "" {
		snapshot.SentimentStats.OverallLabel = defaultSentimentLabel
	}

	if snapshot.TopIssues == nil {
		snapshot.TopIssues = []core.Issue{}
	}
}

package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Archiver keeps JSON snapshots of records removed through the CMS, so a
// hard delete can still be inspected or restored by hand.
type Archiver struct {
	Dir string
}

func NewArchiver(dir string) *Archiver {
	if dir == "" {
		return nil
	}
	return &Archiver{Dir: dir}
}

// Snapshot is the archived form of one deletion.
type Snapshot struct {
	EntityType string    `json:"entityType"`
	DeletedBy  string    `json:"deletedBy"`
	DeletedAt  time.Time `json:"deletedAt"`
	Records    any       `json:"records"`
}

// SaveJSON writes data to <Dir>/<uuid>.json and returns the file name.
func (a *Archiver) SaveJSON(data any) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	filename := uuid.NewString() + ".json"

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(filepath.Join(a.Dir, filename), jsonData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return filename, nil
}

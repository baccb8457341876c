package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OldStager01/traffic-extrema/internal/logger"
)

const fileLayout = "2006-01-02_15-04-05"

// Writer stores each report in its own timestamped file under Dir
type Writer struct {
	dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// FileName returns output_YYYY-MM-DD_HH-MM-SS.txt for t
func FileName(t time.Time) string {
	return "output_" + t.Format(fileLayout) + ".txt"
}

// Write creates the directory if needed and returns the path written
func (w *Writer) Write(body string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, FileName(w.now()))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	logger.WithField("path", path).Debugf("Report written (%d bytes)", len(body))
	return path, nil
}

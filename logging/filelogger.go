// Package logging writes run artifacts (rendered reports) into a per-run
// directory under the configured log dir.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

const (
	MarkdownReportFilename = "report.md"
	HTMLReportFilename     = "results.html"
	RunDirectoryPrefix     = "testrun-" // Standardized prefix for run directories
)

// FileLogger handles writing rendered reports to files.
type FileLogger struct {
	baseDir string
	mu      sync.Mutex
}

// NewFileLogger creates a file logger rooted at baseDir.
func NewFileLogger(baseDir string) (*FileLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", baseDir, err)
	}
	return &FileLogger{baseDir: baseDir}, nil
}

// RunDir returns the artifact directory for a run ID.
func (l *FileLogger) RunDir(runID string) string {
	return filepath.Join(l.baseDir, RunDirectoryPrefix+runID)
}

// WriteReport stores a rendered report under the run's directory and
// returns the path written.
func (l *FileLogger) WriteReport(runID, filename string, content []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	outputDir := l.RunDir(runID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	log.Debug("wrote report artifact", "path", path, "bytes", len(content))
	return path, nil
}

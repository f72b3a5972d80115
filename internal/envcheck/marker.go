package envcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// MarkerFile is the name of the file that records the last clean pass.
const MarkerFile = ".doctor-passed"

// markerLock guards marker writes across processes; watch mode and a
// concurrent one-shot run may both finish a pass at the same time.
const markerLock = ".doctor.lock"

// NeedsCheck returns true if validation should run: the marker file is
// missing, unreadable, or older than maxAge. A maxAge of zero or less
// disables the freshness bound and any existing marker counts.
func NeedsCheck(dataDir string, maxAge time.Duration) bool {
	markerPath := filepath.Join(dataDir, MarkerFile)
	content, err := os.ReadFile(markerPath)
	if err != nil {
		return true
	}
	if maxAge <= 0 {
		return false
	}

	t, err := time.Parse(time.RFC3339, string(content))
	if err != nil {
		return true
	}
	return time.Since(t) > maxAge
}

// MarkPassed records a clean validation pass in the data directory.
func MarkPassed(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, markerLock))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire marker lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	markerPath := filepath.Join(dataDir, MarkerFile)
	content := []byte(time.Now().Format(time.RFC3339))
	return os.WriteFile(markerPath, content, 0o644)
}

// ClearMarker removes the marker file, forcing a re-check on next run.
func ClearMarker(dataDir string) error {
	markerPath := filepath.Join(dataDir, MarkerFile)
	err := os.Remove(markerPath)
	if os.IsNotExist(err) {
		return nil // Already gone
	}
	if err != nil {
		return fmt.Errorf("remove marker file: %w", err)
	}
	return nil
}

// MarkerAge returns how long ago the last clean pass was recorded.
// Returns zero if the marker doesn't exist or is unreadable.
func MarkerAge(dataDir string) time.Duration {
	markerPath := filepath.Join(dataDir, MarkerFile)
	content, err := os.ReadFile(markerPath)
	if err != nil {
		return 0
	}

	t, err := time.Parse(time.RFC3339, string(content))
	if err != nil {
		return 0
	}

	return time.Since(t)
}

// Package eventlog keeps a local, append-only audit trail of apt-pac
// transactions. Events are JSON lines grouped by day; nothing ever leaves
// the machine.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/dry/log"
)

type EventType string

const (
	EventResolveCompleted EventType = "resolve_completed"
	EventResolveFailed    EventType = "resolve_failed"
	EventBuildStarted     EventType = "build_started"
	EventBuildFailed      EventType = "build_failed"
	EventInstallCompleted EventType = "install_completed"
)

// Event is one audit record. RunID and Timestamp are filled in by Record.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Type      EventType `json:"type"`
	Package   string    `json:"package,omitempty"`
	Version   string    `json:"version,omitempty"`
	Message   string    `json:"message,omitempty"`
}

type logger struct {
	mu    sync.Mutex
	dir   string
	runID string
	file  *os.File
}

var (
	global *logger
	once   sync.Once
)

// Initialize opens the event log in dir and prunes files older than the
// retention window. Before Initialize (or after a failed one), Record is a
// no-op, so callers never need to guard their calls.
func Initialize(dir string, retentionDays int) error {
	var initErr error

	once.Do(func() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			initErr = fmt.Errorf("failed to create event log directory: %w", err)
			return
		}

		path := filepath.Join(dir, fmt.Sprintf("events-%s.jsonl", time.Now().Format("2006-01-02")))
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			initErr = fmt.Errorf("failed to open event log: %w", err)
			return
		}

		global = &logger{
			dir:   dir,
			runID: uuid.NewString(),
			file:  file,
		}

		pruneOldLogs(dir, retentionDays)
	})

	return initErr
}

// Record appends an event to the current log file. Failures are logged at
// debug level and otherwise ignored; the audit log must never break an
// install.
func Record(event Event) {
	if global == nil {
		return
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	event.Timestamp = time.Now()
	event.RunID = global.runID

	line, err := json.Marshal(event)
	if err != nil {
		log.Debugf("failed to marshal event: %v", err)
		return
	}

	if _, err := global.file.Write(append(line, '\n')); err != nil {
		log.Debugf("failed to write event: %v", err)
	}
}

// Close flushes and closes the event log. Safe to call without Initialize.
func Close() {
	if global == nil {
		return
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	_ = global.file.Close()
}

func pruneOldLogs(dir string, retentionDays int) {
	if retentionDays <= 0 {
		return
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				log.Debugf("failed to prune old event log %s: %v", entry.Name(), err)
			}
		}
	}
}

// reset is a test hook: it drops the global logger so Initialize can run
// again in the same process.
func reset() {
	if global != nil {
		_ = global.file.Close()
	}

	global = nil
	once = sync.Once{}
}

package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnvVar names the environment variable holding the debug log path.
const EnvVar = "DECOROUS_DEBUG"

var (
	logFile *os.File
	mu      sync.Mutex
)

// Init opens the debug log at path, appending to it if it exists.
// If path is empty, uses "decorous-debug.log" in the current directory.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked(path)
}

// InitFromEnv enables logging when DECOROUS_DEBUG is set. It reports whether
// logging was enabled.
func InitFromEnv() (bool, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return false, nil
	}
	if err := Init(path); err != nil {
		return false, err
	}
	return true, nil
}

// initLocked does the actual init work. Caller must hold mu.
func initLocked(path string) error {
	if path == "" {
		path = "decorous-debug.log"
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return nil
}

// Enabled reports whether a debug log is open.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return logFile != nil
}

// Close closes the debug log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Log writes a message to the debug log with a timestamp. It does nothing
// when logging has not been initialized.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(logFile, "[%s] %s\n", timestamp, msg)
}

package debug

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	file    *os.File
	mu      sync.Mutex
	enabled bool
	logger  = newLogger(io.Discard)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return l
}

// Path returns the debug log location, ~/.config/go-surface/debug.log.
func Path() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-surface", "debug.log")
}

// Enable starts debug logging to Path().
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	logPath := Path()
	os.MkdirAll(filepath.Dir(logPath), 0755)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true
	logger.SetOutput(f)
	logger.WithField("cat", "debug").Info("=== Debug logging started ===")
	return nil
}

// EnableWriter sends debug logging to w instead of the log file.
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	logger.SetOutput(w)
	enabled = true
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	logger.SetOutput(io.Discard)
	enabled = false
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	on := enabled
	mu.Unlock()

	if !on {
		return
	}
	logger.WithField("cat", category).Debugf(format, args...)
}

// Warn logs a problem whether or not debug logging is on. Without a debug
// log it goes to stderr.
func Warn(category, format string, args ...any) {
	mu.Lock()
	on := enabled
	mu.Unlock()

	if !on {
		logrus.WithField("cat", category).Warnf(format, args...)
		return
	}
	logger.WithField("cat", category).Warnf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

// Package debug provides conditional debug logging for snake.
//
// Debug logging is enabled by setting the SNAKE_DEBUG environment variable:
//
//	SNAKE_DEBUG=1 snake --input calendar.json
//
// When enabled, messages go to stderr with timestamps. When disabled
// (default), every function is a no-op.
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const prefix = "[SNAKE_DEBUG] "

var (
	mu      sync.RWMutex
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("SNAKE_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging (the --debug flag).
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, mainly for tests. It enables logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	logger = log.New(w, prefix, 0)
}

func active() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return nil
	}
	return logger
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if l := active(); l != nil {
		l.Printf(format, args...)
	}
}

// LogTiming writes a timing message.
func LogTiming(name string, d time.Duration) {
	if l := active(); l != nil {
		l.Printf("%s took %v", name, d)
	}
}

// LogEnterExit logs entry and exit with timing:
//
//	defer debug.LogEnterExit("render")()
func LogEnterExit(name string) func() {
	l := active()
	if l == nil {
		return func() {}
	}
	l.Printf("-> %s", name)
	start := time.Now()
	return func() {
		l.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Section logs a section header.
func Section(name string) {
	if l := active(); l != nil {
		l.Printf("=== %s ===", name)
	}
}

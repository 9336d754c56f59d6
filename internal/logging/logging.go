// Package logging wires up the process-wide structured logger.
//
// It plays the role of the teacher's textcolor.go (color-coded severity
// levels for a soundcard TNC's console output), but backed by a real
// logging library instead of a stubbed-out ANSI implementation.
package logging

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	root    = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	initialized bool
)

// Init sets the process-wide log level. It is safe to call more than once;
// the last call wins. Valid levels: "debug", "info", "warn", "error".
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	root.SetLevel(lvl)
	initialized = true
}

// For returns a child logger tagged with the given component name, e.g.
// For("artnet") logs lines carrying the field component=artnet.
func For(component string) *log.Logger {
	mu.Lock()
	if !initialized {
		root.SetLevel(log.InfoLevel)
		initialized = true
	}
	mu.Unlock()

	return root.With("component", component)
}

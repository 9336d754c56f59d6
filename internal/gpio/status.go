// Package gpio drives an optional GPIO status line that tracks whether
// LED output is currently running, for an external indicator lamp or
// relay. Grounded in the teacher's PTT_METHOD_GPIOD line (ptt.go),
// which declared github.com/warthog618/go-gpiocdev as a dependency but
// left it disabled mid-port ("Gpiod support currently disabled due to
// mid-stage porting complexity"); this finishes that port using the
// library's real pure-Go API instead of the teacher's abandoned cgo
// gpiod_ctxless_set_value call.
package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/kgander/auravis/internal/logging"
)

var log = logging.For("gpio")

// StatusLine drives a single GPIO output line high while LED output is
// active and low otherwise.
type StatusLine struct {
	line *gpiocdev.Line
}

// OpenStatusLine requests offset on chip (e.g. "gpiochip0") as an
// output line, initially de-asserted.
func OpenStatusLine(chip string, offset int) (*StatusLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer("auravis"),
	)
	if err != nil {
		return nil, fmt.Errorf("gpio: request line %s:%d: %w", chip, offset, err)
	}

	log.Info("status line opened", "chip", chip, "offset", offset)

	return &StatusLine{line: line}, nil
}

// SetActive asserts or de-asserts the line.
func (s *StatusLine) SetActive(active bool) {
	value := 0
	if active {
		value = 1
	}

	if err := s.line.SetValue(value); err != nil {
		log.Error("failed to set status line", "err", err)
	}
}

// Close releases the underlying GPIO line.
func (s *StatusLine) Close() error {
	return s.line.Close()
}

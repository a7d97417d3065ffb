// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log entry.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that records every entry it receives.
// Safe for concurrent use.
type LogCapture struct {
	mu      sync.Mutex
	t       *testing.T
	records []LogRecord
}

// NewCaptureLogger returns a logger backed by a fresh capture. Entries are
// echoed through t.Logf so failing tests show what was logged.
func NewCaptureLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	capture := &LogCapture{t: t}
	return slog.New(capture), capture
}

// Handle implements slog.Handler.
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	c.mu.Lock()
	c.records = append(c.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	c.mu.Unlock()

	if c.t != nil {
		c.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}

	return nil
}

// Enabled implements slog.Handler. All levels are captured.
func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

// WithAttrs implements slog.Handler. Pre-bound attrs are not tracked; the
// flat record list keeps assertions simple.
func (c *LogCapture) WithAttrs([]slog.Attr) slog.Handler { return c }

// WithGroup implements slog.Handler. Groups are flattened.
func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Records returns a copy of all captured records.
func (c *LogCapture) Records() []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]LogRecord, len(c.records))
	copy(records, c.records)
	return records
}

// ByLevel returns the captured records at the given level.
func (c *LogCapture) ByLevel(level slog.Level) []LogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	var filtered []LogRecord
	for _, r := range c.records {
		if r.Level == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ContainsMessage reports whether any record's message contains message.
func (c *LogCapture) ContainsMessage(message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.records {
		if strings.Contains(r.Message, message) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record carries the given attribute.
// slog stores integer attrs as int64, so pass int64 values for those.
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.records {
		if val, ok := r.Attrs[key]; ok && val == value {
			return true
		}
	}
	return false
}

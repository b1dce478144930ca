package ui

import (
	"strings"
	"time"

	"github.com/five82/stockroom/internal/logging"
)

// formatEntry renders one activity log entry on a single line.
func formatEntry(e logging.Entry) string {
	if e.Raw != "" {
		return e.Raw
	}
	ts := "-"
	if !e.Time.IsZero() {
		ts = e.Time.In(time.Local).Format("2006-01-02 15:04:05")
	}
	level := strings.ToUpper(strings.TrimSpace(e.Level))
	if level == "" {
		level = "INFO"
	}
	parts := []string{ts, level}
	if name := strings.TrimSpace(e.Logger); name != "" {
		parts = append(parts, "["+name+"]")
	}
	line := strings.Join(parts, " ")
	if msg := strings.TrimSpace(e.Message); msg != "" {
		line += " – " + msg
	}
	if fields := e.FieldSummary(); fields != "" {
		line += "  " + fields
	}
	return line
}

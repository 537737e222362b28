package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultDisplayLayout mirrors the en-US locale date-time rendering.
const DefaultDisplayLayout = "1/2/2006, 3:04:05 PM"

func ParseTimeFlexible(timeStr string) (time.Time, error) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return time.Time{}, fmt.Errorf("invalid time format: empty")
	}
	// Try parsing as RFC3339 (ISO 8601)
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil // Convert to UTC
	}
	t, err = time.Parse(time.RFC3339, timeStr) // Try without nano
	if err == nil {
		return t.UTC(), nil
	}

	// Try parsing as epoch milliseconds
	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil {
		return time.UnixMilli(ms).UTC(), nil // Convert to UTC
	}

	// Anything else the upstream APIs emit (Date.toString(), "2024-01-01 10:00", ...)
	t, err = dateparse.ParseIn(timeStr, time.UTC)
	if err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// FormatDisplayTime renders t in loc with layout, or placeholder when t is zero.
func FormatDisplayTime(t time.Time, loc *time.Location, layout, placeholder string) string {
	if t.IsZero() {
		return placeholder
	}
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultDisplayLayout
	}
	return t.In(loc).Format(layout)
}

package downloader

import (
	"fmt"
	"strconv"
	"time"
)

const bytesPerMegabyte = 1024 * 1024

// formatMegabytes renders a size as megabytes (1 MB = 1,048,576 bytes) with two decimals
func formatMegabytes(b int64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/bytesPerMegabyte)
}

// formatSeconds prints whole durations without a fractional part
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// FormatBytes renders a byte count with a binary unit, e.g. "1.5 MB"
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatDuration renders m:ss or h:mm:ss; negative durations are unknown
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "??:??"
	}
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m >= 60 {
		h := m / 60
		m = m % 60
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

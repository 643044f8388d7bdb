package ytdlp

import (
	"errors"
	"strings"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
)

// Info is the subset of yt-dlp's info dict that gets reported
type Info struct {
	Title    string  // empty if unknown
	Duration float64 // seconds, 0 if unknown
	Filesize int64   // bytes, 0 if unknown
}

// Progress is a transfer progress snapshot
type Progress struct {
	Downloaded int64
	Total      int64 // 0 if unknown
	ETA        time.Duration
}

// Fraction returns completion in [0, 1], or 0 if the total is unknown
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Downloaded) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// RunError carries the ERROR line yt-dlp printed before exiting
type RunError struct {
	Message string
	Err     error
}

func (e *RunError) Error() string {
	return e.Message
}

func (e *RunError) Unwrap() error {
	return e.Err
}

var errNoInfo = errors.New("yt-dlp returned no video info")

// newInfo maps the first extracted entry. Playlists yield one entry per
// video; the first one is reported.
func newInfo(entries []*goytdlp.ExtractedInfo) (*Info, error) {
	if len(entries) == 0 {
		return nil, errNoInfo
	}

	e := entries[0]
	info := &Info{}
	if e.Title != nil {
		info.Title = *e.Title
	}
	if e.Duration != nil {
		info.Duration = *e.Duration
	}
	if e.ExtractedFormat != nil && e.FileSize != nil {
		info.Filesize = int64(*e.FileSize)
	}
	return info, nil
}

// lastErrorLine returns the last "ERROR:" line yt-dlp wrote, prefix included
func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	return ""
}

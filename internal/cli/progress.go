package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/guiyumin/vdl/internal/downloader"
	"github.com/guiyumin/vdl/internal/ytdlp"
)

const progressBarWidth = 40

// progressBar redraws a single terminal line from yt-dlp progress updates
type progressBar struct {
	mu    sync.Mutex
	out   io.Writer
	bar   progress.Model
	drawn bool
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{
		out: out,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressBarWidth)),
	}
}

func (p *progressBar) update(pr ytdlp.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, "\r"+p.render(pr)+"\033[K")
	p.drawn = true
}

func (p *progressBar) render(pr ytdlp.Progress) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(p.bar.ViewAs(pr.Fraction()))
	b.WriteString("  ")
	b.WriteString(downloader.FormatBytes(pr.Downloaded))
	if pr.Total > 0 {
		b.WriteString(" / ")
		b.WriteString(downloader.FormatBytes(pr.Total))
	}
	if pr.ETA > 0 {
		b.WriteString("  ETA ")
		b.WriteString(downloader.FormatDuration(pr.ETA))
	}
	return b.String()
}

// finish ends the progress line so the next status line starts clean
func (p *progressBar) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drawn {
		fmt.Fprintln(p.out)
		p.drawn = false
	}
}

package downloader

import (
	"context"
	"fmt"
	"io"

	"github.com/guiyumin/vdl/internal/i18n"
	"github.com/guiyumin/vdl/internal/site"
	"github.com/guiyumin/vdl/internal/ytdlp"
	"go.uber.org/zap"
)

// Fetcher is the external extraction and download capability
type Fetcher interface {
	ExtractInfo(ctx context.Context, url string, opts ytdlp.Options) (*ytdlp.Info, error)
	Download(ctx context.Context, url string, opts ytdlp.Options) error
}

// Op names the step that failed
type Op string

const (
	OpExtract  Op = "extract"
	OpDownload Op = "download"
)

// Error is returned when the metadata query or the transfer fails
type Error struct {
	URL string
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Downloader runs requests against a Fetcher and prints status lines
type Downloader struct {
	fetcher Fetcher
	out     io.Writer
	t       *i18n.Translations
	log     *zap.Logger
}

// New creates a Downloader that prints to out
func New(fetcher Fetcher, out io.Writer, t *i18n.Translations, log *zap.Logger) *Downloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{
		fetcher: fetcher,
		out:     out,
		t:       t,
		log:     log,
	}
}

// Run queries metadata, reports it, then downloads. The transfer is never
// attempted if the metadata query fails.
func (d *Downloader) Run(ctx context.Context, req Request) error {
	opts := ytdlp.Options{
		OutputTemplate: req.OutputTemplate(),
		Format:         req.Format,
	}

	fields := []zap.Field{
		zap.String("url", req.URL),
		zap.String("format", req.Format),
		zap.String("output", opts.OutputTemplate),
	}
	if rule := site.Match(req.URL); rule != nil {
		fields = append(fields, zap.String("site", rule.Name))
	}
	d.log.Debug("request resolved", fields...)

	fmt.Fprintf(d.out, "%s: %s\n", d.t.Download.Start, req.URL)
	fmt.Fprintf(d.out, "%s: %s\n", d.t.Download.OutputDir, req.OutputDir)

	info, err := d.fetcher.ExtractInfo(ctx, req.URL, opts)
	if err != nil {
		return &Error{URL: req.URL, Op: OpExtract, Err: err}
	}

	d.printInfo(info)

	if err := d.fetcher.Download(ctx, req.URL, opts); err != nil {
		return &Error{URL: req.URL, Op: OpDownload, Err: err}
	}

	fmt.Fprintln(d.out, d.t.Download.Completed)
	return nil
}

func (d *Downloader) printInfo(info *ytdlp.Info) {
	title := info.Title
	if title == "" {
		title = d.t.Download.Unknown
	}
	fmt.Fprintf(d.out, "%s: %s\n", d.t.Download.Title, title)
	fmt.Fprintf(d.out, "%s: %s %s\n", d.t.Download.Duration, formatSeconds(info.Duration), d.t.Download.Seconds)

	size := d.t.Download.Unknown
	if info.Filesize > 0 {
		size = formatMegabytes(info.Filesize)
	}
	fmt.Fprintf(d.out, "%s: %s\n", d.t.Download.Size, size)
}

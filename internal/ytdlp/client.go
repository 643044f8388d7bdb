// Package ytdlp adapts github.com/lrstanley/go-ytdlp to the metadata query
// and transfer operations the downloader needs.
package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// DefaultExecutable is looked up on PATH when no explicit path is configured
const DefaultExecutable = "yt-dlp"

const progressInterval = 250 * time.Millisecond

// ErrNotInstalled means the yt-dlp executable could not be found or installed
var ErrNotInstalled = errors.New("yt-dlp is not installed")

var lookPath = exec.LookPath

// Config controls how yt-dlp is located and invoked
type Config struct {
	Executable  string
	AutoInstall bool
	Proxy       string
	Cookies     string
}

// Options are the per-call settings handed to yt-dlp
type Options struct {
	OutputTemplate string
	Format         string
}

// Client runs yt-dlp through go-ytdlp
type Client struct {
	cfg        Config
	onProgress func(Progress)
	log        *zap.Logger
}

// New creates a Client
func New(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		log: log.Named("ytdlp"),
	}
}

// OnProgress registers a callback for transfer progress
func (c *Client) OnProgress(fn func(Progress)) {
	c.onProgress = fn
}

// CheckInstalled verifies that yt-dlp can be run. With AutoInstall and no
// explicit executable, go-ytdlp downloads a managed copy if none is cached.
func (c *Client) CheckInstalled(ctx context.Context) error {
	if c.cfg.AutoInstall && c.cfg.Executable == "" {
		if _, err := goytdlp.Install(ctx, nil); err != nil {
			return fmt.Errorf("%w: %v", ErrNotInstalled, err)
		}
		return nil
	}

	exe := c.cfg.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	path, err := lookPath(exe)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	c.log.Debug("found yt-dlp", zap.String("path", path))
	return nil
}

func (c *Client) command(opts Options) *goytdlp.Command {
	cmd := goytdlp.New().
		Format(opts.Format).
		Output(opts.OutputTemplate)

	if c.cfg.Executable != "" {
		cmd.SetExecutable(c.cfg.Executable)
	}
	if c.cfg.Proxy != "" {
		cmd.Proxy(c.cfg.Proxy)
	}
	if c.cfg.Cookies != "" {
		cmd.Cookies(c.cfg.Cookies)
	}
	return cmd
}

// ExtractInfo queries metadata without downloading media
func (c *Client) ExtractInfo(ctx context.Context, url string, opts Options) (*Info, error) {
	cmd := c.command(opts).
		SkipDownload().
		PrintJSON()

	c.log.Debug("extracting info", zap.String("url", url), zap.String("format", opts.Format))

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, c.wrap(res, err)
	}

	entries, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	return newInfo(entries)
}

// Download transfers the media to opts.OutputTemplate
func (c *Client) Download(ctx context.Context, url string, opts Options) error {
	cmd := c.command(opts)

	if fn := c.onProgress; fn != nil {
		cmd.ProgressFunc(progressInterval, func(update goytdlp.ProgressUpdate) {
			fn(Progress{
				Downloaded: int64(update.DownloadedBytes),
				Total:      int64(update.TotalBytes),
				ETA:        update.ETA(),
			})
		})
	}

	c.log.Debug("downloading", zap.String("url", url), zap.String("output", opts.OutputTemplate))

	res, err := cmd.Run(ctx, url)
	if err != nil {
		return c.wrap(res, err)
	}
	return nil
}

func (c *Client) wrap(res *goytdlp.Result, err error) error {
	if res == nil {
		return err
	}
	c.log.Debug("yt-dlp failed",
		zap.Int("exit_code", res.ExitCode),
		zap.String("stderr", res.Stderr),
	)
	if msg := lastErrorLine(res.Stderr); msg != "" {
		return &RunError{Message: msg, Err: err}
	}
	return err
}

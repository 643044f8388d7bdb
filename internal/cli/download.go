package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/guiyumin/vdl/internal/downloader"
	"go.uber.org/zap"
)

var (
	failStyle = color.New(color.FgRed)
	warnStyle = color.New(color.FgYellow)
	okStyle   = color.New(color.FgGreen)
)

// runDownload resolves one request and runs it, printing the failure line
func (a *App) runDownload(ctx context.Context, url string) error {
	if err := a.download(ctx, url); err != nil {
		a.printFailure(err)
		return reportedError{err}
	}
	return nil
}

func (a *App) download(ctx context.Context, url string) error {
	req, err := downloader.NewRequest(url, a.outputDir(), a.qualityValue())
	if err != nil {
		return err
	}
	return downloader.New(a.fetcher, a.out, a.t, a.log).Run(ctx, req)
}

func (a *App) printFailure(err error) {
	var dlErr *downloader.Error
	if errors.As(err, &dlErr) {
		a.log.Debug("download failed",
			zap.String("url", dlErr.URL),
			zap.String("op", string(dlErr.Op)),
			zap.Error(dlErr.Err),
		)
	}
	fmt.Fprintln(a.errOut, failStyle.Sprintf("%s: %v", a.t.Download.Failed, err))
}

// outputDir prefers the -o flag over the config file
func (a *App) outputDir() string {
	if a.output != "" {
		return a.output
	}
	return a.cfg.OutputDir
}

// qualityValue prefers the -q flag over the config file
func (a *App) qualityValue() string {
	if a.quality != "" {
		return a.quality
	}
	return a.cfg.Quality
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/guiyumin/vdl/internal/config"
	"github.com/guiyumin/vdl/internal/downloader"
	"github.com/guiyumin/vdl/internal/i18n"
	"github.com/guiyumin/vdl/internal/logging"
	"github.com/guiyumin/vdl/internal/site"
	"github.com/guiyumin/vdl/internal/version"
	"github.com/guiyumin/vdl/internal/ytdlp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Checker reports whether the external download capability is usable
type Checker interface {
	CheckInstalled(ctx context.Context) error
}

// App carries everything a command invocation needs
type App struct {
	cfg        *config.Config
	cfgErr     error // set when the config file exists but could not be loaded
	configPath string
	t          *i18n.Translations
	out        io.Writer
	errOut     io.Writer
	log        *zap.Logger
	level      zap.AtomicLevel
	checker    Checker
	fetcher    downloader.Fetcher

	// flags
	output    string
	quality   string
	batchFile string
	verbose   bool
}

// reportedError marks an error whose message was already printed
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

var errMissingURL = errors.New("a video URL is required")

// Execute builds the production App and runs it with os.Args
func Execute() error {
	configPath := config.SavePath()
	cfg, cfgErr := config.LoadOrDefault(configPath)
	level := logging.Level(cfg.Verbose)
	log, err := logging.New(level)
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync() //nolint:errcheck

	client := ytdlp.New(ytdlp.Config{
		Executable:  cfg.YtDlp.Path,
		AutoInstall: cfg.YtDlp.AutoInstall,
		Proxy:       cfg.Proxy,
		Cookies:     cfg.YtDlp.Cookies,
	}, log)

	app := &App{
		cfg:        cfg,
		cfgErr:     cfgErr,
		configPath: configPath,
		t:          i18n.T(cfg.Language),
		out:        os.Stdout,
		errOut:     os.Stderr,
		log:        log,
		level:      level,
		checker:    client,
		fetcher:    client,
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		app.fetcher = newTerminalFetcher(client, os.Stdout, app.t)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return app.Run(ctx, os.Args[1:])
}

// Run checks for yt-dlp before looking at args, then dispatches the command
func (a *App) Run(ctx context.Context, args []string) error {
	if a.cfgErr != nil {
		fmt.Fprintln(a.errOut, warnStyle.Sprintf("%s: %v", a.t.Errors.ConfigLoad, a.cfgErr))
	}

	if err := a.checker.CheckInstalled(ctx); err != nil {
		a.log.Debug("dependency check failed", zap.Error(err))
		fmt.Fprintln(a.errOut, failStyle.Sprint(a.t.Errors.NotInstalled))
		fmt.Fprintf(a.errOut, a.t.Errors.InstallHint+"\n", orDefault(a.configPath, "config.yml"))
		return reportedError{err}
	}

	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}

	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.As(err, &reportedError{}) {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
	return err
}

// siteRulesHelp lists the URL rules in evaluation order
func siteRulesHelp() string {
	var b strings.Builder
	b.WriteString("Site rules (matched as URL substrings, the last match wins):\n")
	for _, r := range site.List() {
		fmt.Fprintf(&b, "  %-10s %s\n", r.Name, strings.Join(r.Hosts, ", "))
	}
	b.WriteString(`Other links use --quality, or "best" when it is not set.`)
	return b.String()
}

func (a *App) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vdl <url>",
		Short: "Download videos from ordinary links, YouTube and Bilibili",
		Long: `Download a video with yt-dlp.

YouTube links always use an MP4-preferring format chain. Bilibili links use
the --quality value when given, otherwise a best video+audio chain.

` + siteRulesHelp(),
		Example: `  # plain video link
  vdl https://www.getsnippets.ai/why-keeping-prompts/ikea-veo.mp4

  # YouTube
  vdl https://www.youtube.com/watch?v=VIDEO_ID

  # Bilibili
  vdl https://www.bilibili.com/video/BVxxxxx
  vdl https://b23.tv/xxxxx

  # output directory and quality
  vdl URL -o ./videos
  vdl URL -q 720p

  # several links from a file
  vdl -a urls.txt`,
		Version:       version.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				a.level.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.batchFile != "" {
				return a.runBatch(cmd.Context(), a.batchFile, args)
			}
			if len(args) == 0 {
				cmd.Help() //nolint:errcheck
				return errMissingURL
			}
			return a.runDownload(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&a.output, "output", "o", "", "output directory (default: downloads next to the vdl binary)")
	cmd.Flags().StringVarP(&a.quality, "quality", "q", "", "yt-dlp format selector (e.g. best, worst, 720p)")
	cmd.Flags().StringVarP(&a.batchFile, "batch-file", "a", "", "file with one URL per line")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "print debug logs to stderr")

	cmd.AddCommand(a.configCommand())
	cmd.AddCommand(a.updateCommand())

	return cmd
}

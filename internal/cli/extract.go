package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guiyumin/vdl/internal/downloader"
	"github.com/guiyumin/vdl/internal/i18n"
	"github.com/guiyumin/vdl/internal/ytdlp"
)

var (
	extractInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	extractSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

var errExtractCancelled = errors.New("extraction cancelled")

// extractState holds extraction state
type extractState struct {
	mu     sync.RWMutex
	done   bool
	err    error
	result *ytdlp.Info
}

func (s *extractState) finish(result *ytdlp.Info, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
	s.err = err
}

func (s *extractState) get() (bool, error, *ytdlp.Info) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.err, s.result
}

type extractTickMsg time.Time

type extractModel struct {
	spinner spinner.Model
	t       *i18n.Translations
	url     string
	state   *extractState
}

func newExtractModel(url string, t *i18n.Translations, state *extractState) extractModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = extractSpinnerStyle

	return extractModel{
		spinner: s,
		t:       t,
		url:     url,
		state:   state,
	}
}

func extractTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return extractTickMsg(t)
	})
}

func (m extractModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, extractTickCmd())
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case extractTickMsg:
		done, _, _ := m.state.get()
		if done {
			return m, tea.Quit
		}
		return m, extractTickCmd()
	}

	return m, nil
}

// View clears itself once extraction is done so the status lines follow directly
func (m extractModel) View() string {
	if done, _, _ := m.state.get(); done {
		return ""
	}
	return fmt.Sprintf("  %s %s: %s\n",
		m.spinner.View(),
		m.t.Download.Extracting,
		extractInfoStyle.Render(m.url),
	)
}

// runExtractWithSpinner runs extract in the background while a spinner is shown
func runExtractWithSpinner(ctx context.Context, out io.Writer, t *i18n.Translations, url string,
	extract func(context.Context) (*ytdlp.Info, error)) (*ytdlp.Info, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &extractState{}
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		state.finish(extract(ctx))
	}()

	p := tea.NewProgram(newExtractModel(url, t, state), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return nil, err
	}

	done, extractErr, result := state.get()
	if !done {
		// quit from the keyboard
		cancel()
		<-finished
		return nil, errExtractCancelled
	}
	if extractErr != nil {
		return nil, extractErr
	}
	return result, nil
}

// terminalFetcher decorates a Fetcher with a spinner and a progress bar
type terminalFetcher struct {
	inner downloader.Fetcher
	out   io.Writer
	t     *i18n.Translations
	bar   *progressBar
}

func newTerminalFetcher(client *ytdlp.Client, out io.Writer, t *i18n.Translations) *terminalFetcher {
	bar := newProgressBar(out)
	client.OnProgress(bar.update)
	return &terminalFetcher{
		inner: client,
		out:   out,
		t:     t,
		bar:   bar,
	}
}

func (f *terminalFetcher) ExtractInfo(ctx context.Context, url string, opts ytdlp.Options) (*ytdlp.Info, error) {
	return runExtractWithSpinner(ctx, f.out, f.t, url, func(ctx context.Context) (*ytdlp.Info, error) {
		return f.inner.ExtractInfo(ctx, url, opts)
	})
}

func (f *terminalFetcher) Download(ctx context.Context, url string, opts ytdlp.Options) error {
	defer f.bar.finish()
	return f.inner.Download(ctx, url, opts)
}

package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	goytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewInfo(t *testing.T) {
	title := "Never Gonna Give You Up"
	duration := 212.0
	size := 10485760

	info, err := newInfo([]*goytdlp.ExtractedInfo{{
		ExtractedFormat: &goytdlp.ExtractedFormat{FileSize: &size},
		Title:           &title,
		Duration:        &duration,
	}})
	require.NoError(t, err)
	assert.Equal(t, title, info.Title)
	assert.Equal(t, 212.0, info.Duration)
	assert.Equal(t, int64(10485760), info.Filesize)
}

func TestNewInfoMissingFields(t *testing.T) {
	duration := 12.5

	info, err := newInfo([]*goytdlp.ExtractedInfo{{Duration: &duration}})
	require.NoError(t, err)
	assert.Empty(t, info.Title)
	assert.Equal(t, 12.5, info.Duration)
	assert.Zero(t, info.Filesize)
}

func TestNewInfoFirstEntryWins(t *testing.T) {
	first, second := "first", "second"

	info, err := newInfo([]*goytdlp.ExtractedInfo{{Title: &first}, {Title: &second}})
	require.NoError(t, err)
	assert.Equal(t, "first", info.Title)
}

func TestNewInfoEmpty(t *testing.T) {
	_, err := newInfo(nil)
	assert.ErrorIs(t, err, errNoInfo)
}

func TestLastErrorLine(t *testing.T) {
	stderr := `WARNING: [youtube] something minor
ERROR: [youtube] abc: Video unavailable
`
	assert.Equal(t, "ERROR: [youtube] abc: Video unavailable", lastErrorLine(stderr))
	assert.Empty(t, lastErrorLine("WARNING: only a warning"))
	assert.Empty(t, lastErrorLine(""))
}

func TestRunErrorUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := error(&RunError{Message: "Unsupported URL", Err: inner})

	assert.EqualError(t, err, "Unsupported URL")
	assert.ErrorIs(t, err, inner)
}

func TestProgressFraction(t *testing.T) {
	assert.Zero(t, Progress{Downloaded: 10}.Fraction())
	assert.Equal(t, 0.5, Progress{Downloaded: 50, Total: 100}.Fraction())
	assert.Equal(t, 1.0, Progress{Downloaded: 150, Total: 100, ETA: time.Second}.Fraction())
}

func TestCheckInstalledMissing(t *testing.T) {
	c := New(Config{Executable: filepath.Join(t.TempDir(), "yt-dlp")}, zaptest.NewLogger(t))

	err := c.CheckInstalled(context.Background())
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestCheckInstalledFound(t *testing.T) {
	exe := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\nexit 0\n"), 0755))

	c := New(Config{Executable: exe}, zaptest.NewLogger(t))
	assert.NoError(t, c.CheckInstalled(context.Background()))
}

func TestCheckInstalledDefaultExecutable(t *testing.T) {
	var looked string
	orig := lookPath
	lookPath = func(file string) (string, error) {
		looked = file
		return "/usr/bin/" + file, nil
	}
	t.Cleanup(func() { lookPath = orig })

	c := New(Config{}, nil)
	require.NoError(t, c.CheckInstalled(context.Background()))
	assert.Equal(t, DefaultExecutable, looked)
}

// fakeYtDlp writes a shell script standing in for yt-dlp. It records its
// arguments one per line and then runs body.
func fakeYtDlp(t *testing.T, body string) (exe string, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script executable")
	}

	dir := t.TempDir()
	exe = filepath.Join(dir, "yt-dlp")
	argsFile = filepath.Join(dir, "args")
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > %q\n%s\n", argsFile, body)
	require.NoError(t, os.WriteFile(exe, []byte(script), 0755))
	return exe, argsFile
}

func recordedArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func assertFlag(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i, arg := range args {
		if arg == flag {
			require.Less(t, i+1, len(args), flag)
			assert.Equal(t, value, args[i+1], flag)
			return
		}
	}
	t.Errorf("flag %s not passed: %v", flag, args)
}

func TestClientExtractInfo(t *testing.T) {
	exe, argsFile := fakeYtDlp(t,
		`echo '{"_type":"video","id":"x","title":"T","duration":3.5,"filesize":2097152}'`)
	c := New(Config{
		Executable: exe,
		Proxy:      "socks5://127.0.0.1:1080",
		Cookies:    "/tmp/cookies.txt",
	}, zaptest.NewLogger(t))

	template := filepath.Join(t.TempDir(), "%(title)s.%(ext)s")
	info, err := c.ExtractInfo(context.Background(), "https://x", Options{
		OutputTemplate: template,
		Format:         "best",
	})
	require.NoError(t, err)
	assert.Equal(t, &Info{Title: "T", Duration: 3.5, Filesize: 2097152}, info)

	args := recordedArgs(t, argsFile)
	assert.Contains(t, args, "--skip-download")
	assert.Contains(t, args, "--print-json")
	assertFlag(t, args, "--format", "best")
	assertFlag(t, args, "--output", template)
	assertFlag(t, args, "--proxy", "socks5://127.0.0.1:1080")
	assertFlag(t, args, "--cookies", "/tmp/cookies.txt")
	assert.Equal(t, "https://x", args[len(args)-1])
}

func TestClientExtractInfoNoProxyOrCookies(t *testing.T) {
	exe, argsFile := fakeYtDlp(t, `echo '{"_type":"video","id":"x"}'`)
	c := New(Config{Executable: exe}, zaptest.NewLogger(t))

	info, err := c.ExtractInfo(context.Background(), "https://x", Options{Format: "best"})
	require.NoError(t, err)
	assert.Equal(t, &Info{}, info)

	args := recordedArgs(t, argsFile)
	assert.NotContains(t, args, "--proxy")
	assert.NotContains(t, args, "--cookies")
}

func TestClientExtractInfoNoJSON(t *testing.T) {
	exe, _ := fakeYtDlp(t, `echo 'WARNING: nothing to report'`)
	c := New(Config{Executable: exe}, zaptest.NewLogger(t))

	_, err := c.ExtractInfo(context.Background(), "https://x", Options{Format: "best"})
	assert.ErrorIs(t, err, errNoInfo)
}

func TestClientExtractInfoError(t *testing.T) {
	exe, _ := fakeYtDlp(t, `echo 'WARNING: [generic] Falling back on generic information extractor' >&2
echo 'ERROR: [generic] Unsupported URL: https://x' >&2
exit 1`)
	c := New(Config{Executable: exe}, zaptest.NewLogger(t))

	_, err := c.ExtractInfo(context.Background(), "https://x", Options{Format: "best"})
	require.Error(t, err)
	assert.EqualError(t, err, "ERROR: [generic] Unsupported URL: https://x")

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	_, isExit := goytdlp.IsExitCodeError(err)
	assert.True(t, isExit)
}

func TestClientDownloadProgress(t *testing.T) {
	exe, argsFile := fakeYtDlp(t,
		`echo 'progress:{"info":{"_type":"video","id":"x"},"progress":{"status":"downloading","total_bytes":100,"downloaded_bytes":50,"filename":"x.mp4"}}'`)
	c := New(Config{Executable: exe}, zaptest.NewLogger(t))

	var updates []Progress
	c.OnProgress(func(p Progress) {
		updates = append(updates, p)
	})

	require.NoError(t, c.Download(context.Background(), "https://x", Options{Format: "best"}))

	require.Len(t, updates, 1)
	assert.Equal(t, int64(50), updates[0].Downloaded)
	assert.Equal(t, int64(100), updates[0].Total)
	assert.Equal(t, 0.5, updates[0].Fraction())

	args := recordedArgs(t, argsFile)
	assert.Contains(t, args, "--progress-template")
	assert.NotContains(t, args, "--skip-download")
	assertFlag(t, args, "--format", "best")
}

func TestClientDownloadError(t *testing.T) {
	exe, _ := fakeYtDlp(t, `echo 'ERROR: unable to download video data: HTTP Error 403: Forbidden' >&2
exit 1`)
	c := New(Config{Executable: exe}, zaptest.NewLogger(t))

	err := c.Download(context.Background(), "https://x", Options{Format: "best"})
	assert.EqualError(t, err, "ERROR: unable to download video data: HTTP Error 403: Forbidden")
}

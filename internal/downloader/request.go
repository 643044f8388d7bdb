package downloader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/guiyumin/vdl/internal/site"
)

// DefaultDirName is created next to the executable when no output
// directory is given
const DefaultDirName = "downloads"

// filenameTemplate is yt-dlp's output template for a single file
const filenameTemplate = "%(title)s.%(ext)s"

// executableDir returns the directory containing the running binary
var executableDir = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Request is a single download built from CLI input
type Request struct {
	URL       string
	OutputDir string
	Format    string
}

// OutputTemplate returns the yt-dlp output template inside OutputDir
func (r Request) OutputTemplate() string {
	return filepath.Join(r.OutputDir, filenameTemplate)
}

// NewRequest resolves the output directory and the format selector for url
func NewRequest(url, outputDir, quality string) (Request, error) {
	dir, err := ResolveOutputDir(outputDir)
	if err != nil {
		return Request{}, err
	}
	return Request{
		URL:       url,
		OutputDir: dir,
		Format:    site.SelectFormat(url, quality),
	}, nil
}

// DefaultOutputDir returns <executable dir>/downloads
func DefaultOutputDir() (string, error) {
	dir, err := executableDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Join(dir, DefaultDirName), nil
}

// ResolveOutputDir returns the absolute output directory, creating it if needed.
// An empty dir selects DefaultOutputDir.
func ResolveOutputDir(dir string) (string, error) {
	var (
		path string
		err  error
	)
	if dir == "" {
		path, err = DefaultOutputDir()
	} else {
		path, err = filepath.Abs(dir)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}

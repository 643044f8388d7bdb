package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// readURLs reads one URL per line, skipping blank lines and # comments
func readURLs(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return urls, nil
}

// runBatch downloads every URL from args and the batch file. A failed URL
// does not stop the rest; the batch fails if any URL failed.
func (a *App) runBatch(ctx context.Context, filename string, args []string) error {
	fileURLs, err := readURLs(filename)
	if err != nil {
		return err
	}

	urls := append(append([]string{}, args...), fileURLs...)
	if len(urls) == 0 {
		return errors.New(a.t.Batch.NoURLs)
	}

	fmt.Fprintf(a.out, a.t.Batch.Found+"\n\n", len(urls))

	var succeeded int
	var failedURLs []string

	for i, url := range urls {
		if ctx.Err() != nil {
			failedURLs = append(failedURLs, urls[i:]...)
			break
		}

		fmt.Fprintf(a.out, "[%d/%d] %s\n", i+1, len(urls), truncateURL(url, 60))

		if err := a.download(ctx, url); err != nil {
			a.printFailure(err)
			failedURLs = append(failedURLs, url)
		} else {
			succeeded++
		}
		fmt.Fprintln(a.out)
	}

	fmt.Fprintln(a.out, "----------------------------------------")
	summary := fmt.Sprintf(a.t.Batch.Completed, succeeded, len(urls))
	if len(failedURLs) > 0 {
		summary += ", " + fmt.Sprintf(a.t.Batch.Failed, len(failedURLs))
		fmt.Fprintln(a.out, summary)
	} else {
		fmt.Fprintln(a.out, okStyle.Sprint(summary))
	}

	if len(failedURLs) == 0 {
		return nil
	}

	fmt.Fprintln(a.out, "\n"+a.t.Batch.FailedURL)
	for _, url := range failedURLs {
		fmt.Fprintf(a.out, "  - %s\n", url)
	}
	return reportedError{fmt.Errorf("%d of %d downloads failed", len(failedURLs), len(urls))}
}

// truncateURL shortens a URL for display
func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

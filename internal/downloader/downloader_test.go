package downloader

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/guiyumin/vdl/internal/i18n"
	"github.com/guiyumin/vdl/internal/ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeFetcher struct {
	info        *ytdlp.Info
	extractErr  error
	downloadErr error

	extractCalls  int
	downloadCalls int
	opts          ytdlp.Options
}

func (f *fakeFetcher) ExtractInfo(_ context.Context, _ string, opts ytdlp.Options) (*ytdlp.Info, error) {
	f.extractCalls++
	f.opts = opts
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.info, nil
}

func (f *fakeFetcher) Download(_ context.Context, _ string, opts ytdlp.Options) error {
	f.downloadCalls++
	f.opts = opts
	return f.downloadErr
}

func newTestDownloader(t *testing.T, f Fetcher, lang string) (*Downloader, *bytes.Buffer) {
	var out bytes.Buffer
	return New(f, &out, i18n.T(lang), zaptest.NewLogger(t)), &out
}

var testRequest = Request{
	URL:       "https://www.bilibili.com/video/BV1xx411c7mD",
	OutputDir: "/tmp/videos",
	Format:    "bestvideo+bestaudio/best",
}

func TestRunSuccess(t *testing.T) {
	f := &fakeFetcher{info: &ytdlp.Info{Title: "测试视频", Duration: 212, Filesize: 10 * 1024 * 1024}}
	d, out := newTestDownloader(t, f, "zh")

	require.NoError(t, d.Run(context.Background(), testRequest))

	want := "开始下载: https://www.bilibili.com/video/BV1xx411c7mD\n" +
		"输出目录: /tmp/videos\n" +
		"视频标题: 测试视频\n" +
		"视频时长: 212 秒\n" +
		"文件大小: 10.00 MB\n" +
		"下载完成！\n"
	assert.Equal(t, want, out.String())

	assert.Equal(t, 1, f.extractCalls)
	assert.Equal(t, 1, f.downloadCalls)
	assert.Equal(t, "/tmp/videos/%(title)s.%(ext)s", f.opts.OutputTemplate)
	assert.Equal(t, testRequest.Format, f.opts.Format)
}

func TestRunUnknownMetadata(t *testing.T) {
	f := &fakeFetcher{info: &ytdlp.Info{}}
	d, out := newTestDownloader(t, f, "en")

	require.NoError(t, d.Run(context.Background(), testRequest))

	assert.Contains(t, out.String(), "Title: unknown\n")
	assert.Contains(t, out.String(), "Duration: 0 s\n")
	assert.Contains(t, out.String(), "File size: unknown\n")
}

func TestRunExtractFailureSkipsDownload(t *testing.T) {
	cause := errors.New("Unsupported URL: https://example.com")
	f := &fakeFetcher{extractErr: cause}
	d, out := newTestDownloader(t, f, "zh")

	err := d.Run(context.Background(), testRequest)
	require.Error(t, err)

	var dlErr *Error
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, OpExtract, dlErr.Op)
	assert.Equal(t, testRequest.URL, dlErr.URL)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())

	assert.Equal(t, 0, f.downloadCalls)
	assert.NotContains(t, out.String(), "下载完成")
}

func TestRunDownloadFailure(t *testing.T) {
	cause := errors.New("Requested format is not available")
	f := &fakeFetcher{info: &ytdlp.Info{Title: "x"}, downloadErr: cause}
	d, out := newTestDownloader(t, f, "zh")

	err := d.Run(context.Background(), testRequest)

	var dlErr *Error
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, OpDownload, dlErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, out.String(), "视频标题: x\n")
	assert.NotContains(t, out.String(), "下载完成")
}

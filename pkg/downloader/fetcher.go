package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

// Fetcher downloads resolved urls into the output directory.
type Fetcher struct {
	session      *httputil.Session
	outputDir    string
	showProgress bool
	progressOut  io.Writer
}

type FetcherOption func(*Fetcher)

// WithProgress draws a progress bar on w while downloading.
func WithProgress(w io.Writer) FetcherOption {
	return func(f *Fetcher) {
		f.showProgress = w != nil
		f.progressOut = w
	}
}

func NewFetcher(session *httputil.Session, outputDir string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{session: session, outputDir: outputDir}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) OutputDir() string {
	return f.outputDir
}

// Download saves the body of url as fileName in the output directory. The
// file only appears once the body has been fully written.
func (f *Fetcher) Download(ctx context.Context, url, fileName string) (Artifact, error) {
	if url == "" {
		return Artifact{}, httputil.NotFound("no download url for %s", fileName)
	}
	if err := os.MkdirAll(f.outputDir, 0750); err != nil {
		return Artifact{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	resp, err := f.session.Get(ctx, url, nil)
	if err != nil {
		return Artifact{}, err
	}
	defer resp.Body.Close()

	dest := filepath.Join(f.outputDir, fileName)
	partial := dest + ".part"
	//nolint:gosec // G304: destination is built from the configured output dir
	out, err := os.Create(partial)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create file: %w", err)
	}

	var w io.Writer = out
	if f.showProgress {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.progressOut),
			progressbar.OptionSetDescription("downloading "+fileName),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(out, bar)
	}

	written, err := io.Copy(w, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partial)
		return Artifact{}, &httputil.SourceUnavailableError{URL: url, Hint: "download interrupted", Err: err}
	}
	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return Artifact{}, fmt.Errorf("failed to move download into place: %w", err)
	}

	logme.DebugFln("Downloaded %s (%d bytes) from %s", fileName, written, url)
	return Artifact{
		Path: dest,
		URL:  url,
		Size: written,
	}, nil
}

// Artifacts lists files in the output directory matching a doublestar
// pattern such as "**/*.apk", relative to the output directory.
func (f *Fetcher) Artifacts(pattern string) ([]string, error) {
	if _, err := os.Stat(f.outputDir); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(f.outputDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &httputil.ConfigurationError{Reason: "invalid artifact pattern " + pattern, Err: err}
	}
	return matches, nil
}

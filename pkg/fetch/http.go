package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
)

// HTTP fetches with a plain net/http client, streaming the body
// straight into the destination file.
type HTTP struct {
	client         *http.Client
	timeout        time.Duration
	userAgent      string
	progressWriter io.Writer
}

func NewHTTP(opts Options) *HTTP {
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}
	return &HTTP{
		client:         client,
		timeout:        opts.Timeout,
		userAgent:      opts.UserAgent,
		progressWriter: opts.ProgressWriter,
	}
}

func (f *HTTP) Fetch(ctx context.Context, rawURL, dest string) error {
	ctx, cancel := withTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrBadStatus, rawURL, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var w io.Writer = out
	var bar *progressbar.ProgressBar
	if f.progressWriter != nil {
		bar = newBar(f.progressWriter, resp.ContentLength, filepath.Base(dest))
		w = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		if bar != nil {
			bar.Exit()
		}
		out.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if bar != nil {
		bar.Finish()
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

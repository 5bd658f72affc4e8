package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cavaliercoder/grab"
)

// Grab fetches with the grab download client. Resume support is turned
// off so a fetch always transfers the full file.
type Grab struct {
	client         *grab.Client
	timeout        time.Duration
	progressWriter io.Writer
}

func NewGrab(opts Options) *Grab {
	client := grab.NewClient()
	if opts.Client != nil {
		client.HTTPClient = opts.Client
	}
	if opts.UserAgent != "" {
		client.UserAgent = opts.UserAgent
	}
	return &Grab{
		client:         client,
		timeout:        opts.Timeout,
		progressWriter: opts.ProgressWriter,
	}
}

func (g *Grab) Fetch(ctx context.Context, rawURL, dest string) error {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	// grab reports an existing complete file as already done instead of
	// transferring again, so clear the way first.
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}

	req, err := grab.NewRequest(dest, rawURL)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req = req.WithContext(ctx)
	req.NoResume = true

	resp := g.client.Do(req)
	if g.progressWriter != nil {
		g.track(resp, dest)
	} else {
		<-resp.Done
	}

	if err := resp.Err(); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	return nil
}

// track polls the transfer state into a progress bar until it is done.
func (g *Grab) track(resp *grab.Response, dest string) {
	size := resp.Size
	if size <= 0 {
		size = -1
	}
	bar := newBar(g.progressWriter, size, filepath.Base(dest))
	t := time.NewTicker(200 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			bar.Set64(resp.BytesComplete())
		case <-resp.Done:
			if resp.Err() != nil {
				bar.Exit()
				return
			}
			bar.Set64(resp.BytesComplete())
			bar.Finish()
			return
		}
	}
}

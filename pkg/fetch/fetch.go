// Package fetch retrieves single remote resources into local files. Two
// engines are available behind the same interface: a plain HTTP client
// and one built on grab.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBadStatus marks a fetch the server rejected with a non-OK HTTP
// status.
var ErrBadStatus = errors.New("unexpected HTTP status")

// Fetcher downloads one URL to a local file. A failed fetch may leave a
// partial file behind; callers treat the outcome as failed either way.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Engine names accepted by New.
const (
	EngineHTTP = "http"
	EngineGrab = "grab"
)

// Options configures an engine.
type Options struct {
	// Client overrides the HTTP client used for transfers.
	Client *http.Client
	// Timeout bounds each fetch, request and body included. Zero means
	// no bound beyond the caller's context.
	Timeout time.Duration
	// UserAgent is sent with every request when non-empty.
	UserAgent string
	// ProgressWriter receives a live progress bar per fetch, usually
	// os.Stderr. Nil disables progress output.
	ProgressWriter io.Writer
}

// New selects a fetch engine by name. The empty name selects the HTTP
// engine.
func New(engine string, opts Options) (Fetcher, error) {
	switch engine {
	case "", EngineHTTP:
		return NewHTTP(opts), nil
	case EngineGrab:
		return NewGrab(opts), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q (have %s, %s)", engine, EngineHTTP, EngineGrab)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

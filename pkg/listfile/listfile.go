// Package listfile reads newline-separated URL lists and filters them
// down to the entries a batch run should download.
package listfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// ErrNoInput marks a Source constructed without a line source.
var ErrNoInput = errors.New("no input to read URLs from")

// ValidationError reports a list entry that failed the URL syntax
// check. The whole batch is rejected before any download.
type ValidationError struct {
	Entry  string
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid URL %q in %s: %v", e.Entry, e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidURL is the default syntax check: an entry must parse as a URL
// with at least a scheme and a host.
func ValidURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("missing scheme or host")
	}
	return nil
}

// Options configures a Source beyond its acceptance predicate.
type Options struct {
	// Validate checks URL syntax for every non-blank entry before the
	// first URL is produced. Nil selects ValidURL.
	Validate func(string) error
	// NoValidate disables the syntax check entirely. The entries are
	// then taken as-is and a warning is logged once.
	NoValidate bool
}

// Source produces the accepted URLs of one list, lazily and in input
// order. Blank lines are skipped silently, rejected entries log one
// warning each.
type Source struct {
	name    string
	accept  Accepter
	scanner *bufio.Scanner
	closer  io.Closer
	url     string
	err     error
}

// Open opens a list file and prepares it for iteration. A missing file
// is an error. When validation is enabled (the default) the whole file
// is checked up front and the first offending entry aborts the
// construction.
func Open(path string, accept Accepter, opts Options) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	src, err := New(f, path, accept, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// New prepares an arbitrary line source for iteration. name is used in
// diagnostics in place of a file path. A nil reader fails with
// ErrNoInput.
func New(r io.Reader, name string, accept Accepter, opts Options) (*Source, error) {
	if r == nil {
		return nil, fmt.Errorf("%w (reading %s)", ErrNoInput, name)
	}
	if accept == nil {
		return nil, fmt.Errorf("no acceptance filter for %s", name)
	}

	if opts.NoValidate {
		slog.Warn("URL validation is disabled, list entries are taken as-is", "source", name)
	} else {
		validate := opts.Validate
		if validate == nil {
			validate = ValidURL
		}
		checked, err := validateAll(r, name, validate)
		if err != nil {
			return nil, err
		}
		r = checked
	}

	return &Source{
		name:    name,
		accept:  accept,
		scanner: bufio.NewScanner(r),
	}, nil
}

// validateAll runs the syntax check over every non-blank line and hands
// back a reader positioned at the start again. Seekable inputs are
// rewound in place, anything else is buffered.
func validateAll(r io.Reader, name string, validate func(string) error) (io.Reader, error) {
	var replay io.Reader
	seeker, seekable := r.(io.ReadSeeker)
	if !seekable {
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		r = bytes.NewReader(buf)
		replay = bytes.NewReader(buf)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			continue
		}
		if err := validate(entry); err != nil {
			return nil, &ValidationError{Entry: entry, Source: name, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if seekable {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind %s: %w", name, err)
		}
		return seeker, nil
	}
	return replay, nil
}

// Scan advances to the next accepted URL, reported by URL. It returns
// false when the list is exhausted or reading failed; Err tells the two
// apart.
func (s *Source) Scan() bool {
	for s.scanner.Scan() {
		entry := strings.TrimSpace(s.scanner.Text())
		if entry == "" {
			continue
		}
		if !s.accept.Accept(entry) {
			slog.Warn("ignoring list entry", "entry", entry, "filter", s.accept.String())
			continue
		}
		s.url = entry
		return true
	}
	s.err = s.scanner.Err()
	return false
}

// URL returns the entry produced by the last successful Scan.
func (s *Source) URL() string {
	return s.url
}

// Err returns the first reading error hit by Scan, if any.
func (s *Source) Err() error {
	return s.err
}

// Name returns the list's name for diagnostics, usually its file path.
func (s *Source) Name() string {
	return s.name
}

// Close releases the underlying file, if the Source owns one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

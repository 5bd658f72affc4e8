// Package downloader runs one batch: it ensures the output directory,
// walks the filtered URL sequence in order and fetches every entry into
// its resolved local file, resolving overwrite conflicts along the way.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"fetchlist/pkg/fetch"
	"fetchlist/pkg/prompt"
	"fetchlist/pkg/target"
)

// ErrDirMissing marks a run aborted because the output directory does
// not exist and may not be created.
var ErrDirMissing = errors.New("output directory does not exist")

// URLSource produces the URLs of one batch, one at a time and in input
// order. *listfile.Source satisfies it.
type URLSource interface {
	Scan() bool
	URL() string
	Err() error
}

// Summary counts per-item outcomes over one run.
type Summary struct {
	Written int
	Skipped int
	Failed  int
}

// Total returns the number of URLs the run attempted.
func (s Summary) Total() int {
	return s.Written + s.Skipped + s.Failed
}

// Options configures a Downloader.
type Options struct {
	// Dir is the output directory all files are written into.
	Dir string
	// Create says whether a missing Dir may be created. Empty means
	// CreateNever.
	Create CreatePolicy
	// Overwrite says what happens to already existing target files.
	// Empty means OverwriteNever.
	Overwrite OverwritePolicy
	// Fetcher performs the actual transfers.
	Fetcher fetch.Fetcher
	// Asker answers the interactive policies. Required when either
	// policy is "ask".
	Asker *prompt.Asker
	// Output receives the per-item status lines, os.Stdout when nil.
	Output io.Writer
}

// Downloader executes batches against one output directory. The sticky
// overwrite answers ("always", "never") live on the instance, so
// separate Downloaders never share prompt state.
type Downloader struct {
	dir       string
	create    CreatePolicy
	overwrite OverwritePolicy
	fetcher   fetch.Fetcher
	asker     *prompt.Asker
	out       io.Writer

	ensured         bool
	alwaysOverwrite bool
	neverOverwrite  bool
}

func New(opts Options) (*Downloader, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}
	create := opts.Create
	if create == "" {
		create = CreateNever
	}
	if !create.valid() {
		return nil, fmt.Errorf("unknown create policy %q", create)
	}
	overwrite := opts.Overwrite
	if overwrite == "" {
		overwrite = OverwriteNever
	}
	if !overwrite.valid() {
		return nil, fmt.Errorf("unknown overwrite policy %q", overwrite)
	}
	if (create == CreateAsk || overwrite == OverwriteAsk) && opts.Asker == nil {
		return nil, fmt.Errorf("interactive policy configured without an asker")
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Downloader{
		dir:       opts.Dir,
		create:    create,
		overwrite: overwrite,
		fetcher:   opts.Fetcher,
		asker:     opts.Asker,
		out:       out,
	}, nil
}

// EnsureDir makes sure the output directory exists, creating it when
// the policy or the operator allows. It runs at most once per
// Downloader; later calls are no-ops.
func (d *Downloader) EnsureDir() error {
	if d.ensured {
		return nil
	}
	info, err := os.Stat(d.dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", d.dir)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := d.createDir(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to check output directory: %w", err)
	}
	d.ensured = true
	return nil
}

func (d *Downloader) createDir() error {
	switch d.create {
	case CreateNever:
		return fmt.Errorf("%w: %s", ErrDirMissing, d.dir)
	case CreateAsk:
		ok, err := d.asker.AskYesNo(fmt.Sprintf("Output directory %q does not exist. Create it? (yes/no): ", d.dir))
		if err != nil {
			return fmt.Errorf("failed to ask about creating %s: %w", d.dir, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrDirMissing, d.dir)
		}
	}
	// MkdirAll succeeds if the directory appeared in the meantime.
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Run ensures the output directory once and then downloads every URL
// src produces, strictly one at a time and in input order. A failed
// item is reported and counted, the loop continues. The returned error
// is non-nil only for fatal conditions: a directory that cannot be
// provided, a canceled context, broken operator input or an unreadable
// source.
func (d *Downloader) Run(ctx context.Context, src URLSource) (Summary, error) {
	var sum Summary
	if src == nil {
		return sum, fmt.Errorf("no URL source to download from")
	}
	if err := d.EnsureDir(); err != nil {
		return sum, err
	}

	for src.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rawURL := src.URL()
		outcome, err := d.fetchOne(ctx, rawURL)
		switch outcome {
		case OutcomeWritten:
			sum.Written++
		case OutcomeSkipped:
			sum.Skipped++
		case OutcomeFailed:
			var ab *abortError
			if errors.As(err, &ab) {
				return sum, ab.err
			}
			sum.Failed++
			slog.Error("download failed", "url", rawURL, "err", err)
		}
	}
	if err := src.Err(); err != nil {
		return sum, fmt.Errorf("failed to read URL list: %w", err)
	}

	fmt.Fprintf(d.out, "Done. %d written, %d skipped, %d failed.\n", sum.Written, sum.Skipped, sum.Failed)
	return sum, nil
}

// fetchOne resolves one URL's target path, settles a conflict with any
// existing file and transfers the resource.
func (d *Downloader) fetchOne(ctx context.Context, rawURL string) (Outcome, error) {
	dest, err := target.Resolve(rawURL, d.dir)
	if err != nil {
		return OutcomeFailed, err
	}

	if _, err := os.Stat(dest); err == nil {
		allowed, err := d.allowOverwrite(dest)
		if err != nil {
			return OutcomeFailed, &abortError{err: err}
		}
		if !allowed {
			fmt.Fprintf(d.out, "Skipping already existing file %q.\n", dest)
			return OutcomeSkipped, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return OutcomeFailed, fmt.Errorf("failed to check %s: %w", dest, err)
	}

	fmt.Fprintf(d.out, "Downloading %q to %q... ", rawURL, dest)
	if err := d.fetcher.Fetch(ctx, rawURL, dest); err != nil {
		fmt.Fprintln(d.out, "failed.")
		if ctx.Err() != nil {
			return OutcomeFailed, &abortError{err: ctx.Err()}
		}
		return OutcomeFailed, err
	}
	fmt.Fprintln(d.out, "done.")
	return OutcomeWritten, nil
}

// allowOverwrite decides whether dest may be replaced, consulting the
// sticky answers first, then the policy, then the operator.
func (d *Downloader) allowOverwrite(dest string) (bool, error) {
	switch {
	case d.alwaysOverwrite:
		return true, nil
	case d.neverOverwrite:
		return false, nil
	}

	switch d.overwrite {
	case OverwriteAlways:
		return true, nil
	case OverwriteNever:
		return false, nil
	}

	question := fmt.Sprintf("File %q already exists. Overwrite? (yes/no/always/never): ", dest)
	answer, err := d.asker.Ask(question, "yes", "no", "always", "never")
	if err != nil {
		return false, err
	}
	switch answer {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	case "always":
		d.alwaysOverwrite = true
		return true, nil
	default:
		d.neverOverwrite = true
		return false, nil
	}
}

// abortError wraps failures that must stop the whole run instead of
// counting as one item's failure.
type abortError struct {
	err error
}

func (e *abortError) Error() string {
	return e.err.Error()
}

func (e *abortError) Unwrap() error {
	return e.err
}

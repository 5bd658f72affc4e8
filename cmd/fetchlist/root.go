package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fetchlist/pkg/config"
	"fetchlist/pkg/downloader"
	"fetchlist/pkg/env"
	"fetchlist/pkg/fetch"
	"fetchlist/pkg/listfile"
	"fetchlist/pkg/prompt"
	"fetchlist/pkg/version"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errDownloadsFailed = errors.New("downloads failed")

func main() {
	var (
		verbose    bool
		configPath string
		outDir     string
		create     bool
		force      bool
		noClobber  bool
		batch      bool
		extensions []string
		pattern    string
		engine     string
		timeout    time.Duration
		noProgress bool
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:     "fetchlist [flags] LIST_FILE",
		Short:   "fetchlist - download every URL in a list file",
		Version: version.Version(),
		Long: `Download a batch of files from a newline-separated URL list.

Entries are filtered by a glob pattern or an extension set before
downloading, blank lines are skipped and every URL is saved under the
output directory using the last segment of its path as the filename.
On a terminal, missing directories and existing files are resolved by
asking; in batch mode the -c/-f/-n flags decide.

Example:
  fetchlist --out ~/pictures --pattern '*.jpg' wallpapers.list`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if verbose {
				enableDebugLogging()
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			v := applyConfig(runFlags{
				outDir:     outDir,
				create:     create,
				force:      force,
				extensions: extensions,
				pattern:    pattern,
				engine:     engine,
				timeout:    timeout,
				noProgress: noProgress,
			}, cfg, c.Flags().Changed)

			if v.outDir == "" {
				return fmt.Errorf("no output directory configured (use --out or set output_dir in the config file)")
			}
			dir := env.ExpandPath(v.outDir)

			accept, err := buildAccepter(v.extensions, v.pattern)
			if err != nil {
				return err
			}

			interactive := !batch && isTerminal(os.Stdin)
			overwrite, err := overwritePolicy(v.force, noClobber, interactive)
			if err != nil {
				return err
			}

			userAgent := cfg.UserAgent
			if userAgent == "" {
				userAgent = "fetchlist/" + version.Version()
			}
			var progressWriter io.Writer
			if !v.noProgress && isTerminal(os.Stderr) {
				progressWriter = os.Stderr
			}
			fetcher, err := fetch.New(v.engine, fetch.Options{
				Timeout:        v.timeout,
				UserAgent:      userAgent,
				ProgressWriter: progressWriter,
			})
			if err != nil {
				return err
			}

			var asker *prompt.Asker
			if interactive {
				asker = prompt.New(os.Stdin, os.Stderr)
			}
			d, err := downloader.New(downloader.Options{
				Dir:       dir,
				Create:    createPolicy(v.create, interactive),
				Overwrite: overwrite,
				Fetcher:   fetcher,
				Asker:     asker,
			})
			if err != nil {
				return err
			}

			src, err := listfile.Open(args[0], accept, listfile.Options{NoValidate: noValidate})
			if err != nil {
				return err
			}
			defer src.Close()
			slog.Debug("starting batch", "list", src.Name(), "dir", dir)

			sum, err := d.Run(c.Context(), src)
			if err != nil {
				return err
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d %w", sum.Failed, sum.Total(), errDownloadsFailed)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default ~/.config/fetchlist/config.toml)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory the files are saved into")
	cmd.Flags().BoolVarP(&create, "create", "c", false, "Create the output directory if it does not exist")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files without asking")
	cmd.Flags().BoolVarP(&noClobber, "no-clobber", "n", false, "Never overwrite existing files")
	cmd.Flags().BoolVar(&batch, "batch", false, "Never prompt, even on a terminal")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Accepted file extensions, e.g. jpg,jpeg (case-sensitive)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern entries must match, e.g. '*.jpg' (default '*')")
	cmd.Flags().StringVar(&engine, "engine", "", "Fetch engine, http or grab (default http)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Per-download time limit, 0 for none")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the download progress bar")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip URL syntax validation of the list")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error("error", "err", err)
		if errors.Is(err, errDownloadsFailed) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

// runFlags carries the command-line values that have config-file
// counterparts.
type runFlags struct {
	outDir     string
	create     bool
	force      bool
	extensions []string
	pattern    string
	engine     string
	timeout    time.Duration
	noProgress bool
}

// applyConfig returns v with config-file values filled in wherever no
// explicit choice was made on the command line; changed reports whether
// a flag was given. Flags always win over the file.
func applyConfig(v runFlags, cfg *config.Config, changed func(string) bool) runFlags {
	if v.outDir == "" {
		v.outDir = cfg.OutputDir
	}
	if v.engine == "" {
		v.engine = cfg.Engine
	}
	if !changed("timeout") && cfg.Timeout.Duration > 0 {
		v.timeout = cfg.Timeout.Duration
	}
	if !changed("create") {
		v.create = cfg.Create
	}
	if !changed("force") {
		v.force = cfg.Overwrite
	}
	if !changed("no-progress") {
		v.noProgress = cfg.NoProgress
	}
	if len(v.extensions) == 0 && v.pattern == "" {
		v.extensions = cfg.Extensions
		v.pattern = cfg.Pattern
	}
	return v
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// buildAccepter maps the filter flags to an acceptance predicate. The
// two modes are exclusive; with neither configured every entry is
// accepted.
func buildAccepter(extensions []string, pattern string) (listfile.Accepter, error) {
	if len(extensions) > 0 && pattern != "" {
		return nil, fmt.Errorf("--ext and --pattern are mutually exclusive")
	}
	if len(extensions) > 0 {
		return listfile.NewExtensionSet(extensions...)
	}
	if pattern == "" {
		pattern = "*"
	}
	return listfile.NewPattern(pattern)
}

// overwritePolicy folds the -f/-n flags and the terminal state into one
// policy. Without flags, a terminal gets asked and batch runs skip.
func overwritePolicy(force, noClobber, interactive bool) (downloader.OverwritePolicy, error) {
	switch {
	case force && noClobber:
		return "", fmt.Errorf("--force and --no-clobber are mutually exclusive")
	case force:
		return downloader.OverwriteAlways, nil
	case noClobber:
		return downloader.OverwriteNever, nil
	case interactive:
		return downloader.OverwriteAsk, nil
	default:
		return downloader.OverwriteNever, nil
	}
}

// createPolicy maps the -c flag and the terminal state to a policy.
func createPolicy(create, interactive bool) downloader.CreatePolicy {
	switch {
	case create:
		return downloader.CreateAlways
	case interactive:
		return downloader.CreateAsk
	default:
		return downloader.CreateNever
	}
}

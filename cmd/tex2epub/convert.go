package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	tex2epub "github.com/alnah/go-tex2epub"
	"github.com/alnah/go-tex2epub/internal/config"
	"github.com/alnah/go-tex2epub/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxWorkers bounds --workers.
const maxWorkers = 32

// bookJob is one manuscript to convert.
type bookJob struct {
	root   string // root source file
	outDir string // directory receiving the chapter files
}

// BookResult holds the outcome of a single book conversion.
type BookResult struct {
	Root     string
	OutDir   string
	Written  []string // chapter files, in chapter order
	Sources  []string // source files read
	Bytes    int
	Err      error
	Duration time.Duration
}

// runConvert orchestrates the conversion of one or more books.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	f, roots, err := parseConvertFlags("convert", args, printConvertUsage, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if len(roots) == 0 {
		return ErrNoInput
	}

	cfg, err := loadSettings(f)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common.verbose, f.common.quiet)
	defer func() { _ = logger.Sync() }()

	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	jobs, err := planBooks(roots, cfg)
	if err != nil {
		return err
	}

	results := convertBatch(ctx, conv, jobs, cfg, resolveWorkers(f.workers))

	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}
	failed := printResults(results, f.common.quiet, f.common.verbose, env)
	if failed > 0 {
		return &batchError{failed: failed, total: len(results), first: firstError(results)}
	}
	return nil
}

// newConverter builds a Converter from merged settings.
func newConverter(cfg *config.Config, logger *zap.Logger) (*tex2epub.Converter, error) {
	return tex2epub.NewConverter(
		tex2epub.WithLogger(logger),
		tex2epub.WithFootnotes(cfg.FootnoteMode()),
		tex2epub.WithExtension(cfg.Source.Extension),
		tex2epub.WithAssetPath(cfg.Assets.BasePath),
	)
}

// planBooks assigns an output directory to every root file.
// The directory is the configured one, or the directory of the root file.
// With several books, each gets a subdirectory named after its root file.
func planBooks(roots []string, cfg *config.Config) ([]bookJob, error) {
	jobs := make([]bookJob, 0, len(roots))
	owners := make(map[string]string, len(roots))

	for _, root := range roots {
		dir := cfg.Output.DefaultDir
		if dir == "" {
			dir = filepath.Dir(root)
		}
		if len(roots) > 1 {
			dir = filepath.Join(dir, bookName(root))
		}

		key := fileutil.CanonicalPath(dir)
		if other, ok := owners[key]; ok {
			return nil, fmt.Errorf("%w: %s and %s would both write to %s", ErrUsage, other, root, dir)
		}
		owners[key] = root

		jobs = append(jobs, bookJob{root: root, outDir: dir})
	}
	return jobs, nil
}

// bookName returns the root file name without its extension.
func bookName(root string) string {
	base := filepath.Base(root)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// bookInput builds the library input for a root file.
func bookInput(root string, cfg *config.Config) tex2epub.Input {
	input := tex2epub.Input{Path: root}
	if cfg.Output.Standalone {
		input.Standalone = &tex2epub.Standalone{
			Language: cfg.Output.Language,
			Style:    cfg.Assets.Style,
		}
	}
	return input
}

// convertBatch converts books concurrently, at most workers at a time.
// A failed book does not stop the others.
func convertBatch(ctx context.Context, conv *tex2epub.Converter, jobs []bookJob, cfg *config.Config, workers int) []BookResult {
	results := make([]BookResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = BookResult{Root: job.root, OutDir: job.outDir, Err: err}
				return nil
			}
			results[i] = convertBook(ctx, conv, job, cfg)
			return nil
		})
	}
	_ = g.Wait() // failures are carried by results

	return results
}

// convertBook converts one book and writes its chapter files.
func convertBook(ctx context.Context, conv *tex2epub.Converter, job bookJob, cfg *config.Config) BookResult {
	start := time.Now()
	result := BookResult{Root: job.root, OutDir: job.outDir}

	res, err := conv.Convert(ctx, bookInput(job.root, cfg))
	if err != nil {
		result.Err = &bookError{root: job.root, extension: cfg.Source.Extension, err: err}
		result.Duration = time.Since(start)
		return result
	}
	result.Sources = res.Files
	result.Bytes = res.Size()

	if err := os.MkdirAll(job.outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: creating output directory: %v", ErrWriteChapter, err)
		result.Duration = time.Since(start)
		return result
	}

	for _, ch := range res.Chapters {
		path := filepath.Join(job.outDir, ch.FileName(cfg.Output.FilePattern))
		// #nosec G306 -- chapter files are meant to be readable
		if err := fileutil.WriteFileAtomic(path, []byte(ch.HTML), filePermissions); err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrWriteChapter, err)
			result.Duration = time.Since(start)
			return result
		}
		result.Written = append(result.Written, path)
	}

	result.Duration = time.Since(start)
	return result
}

// validateWorkers checks the --workers value.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines how many books are converted at once.
// Priority: explicit flag > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []BookResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the error of the first failed book in input order.
func firstError(results []BookResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResults outputs conversion results and returns the number of failures.
func printResults(results []BookResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Root, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %s, %s, %v)\n",
				r.Root, r.OutDir,
				plural(len(r.Written), "chapter"),
				humanize.Bytes(uint64(r.Bytes)), // #nosec G115 -- byte counts are non-negative
				plural(len(r.Sources), "source file"),
				r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%s, %s)\n",
				r.OutDir, plural(len(r.Written), "chapter"), humanize.Bytes(uint64(r.Bytes))) // #nosec G115
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// plural formats a count with its noun, adding "s" unless n is 1.
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

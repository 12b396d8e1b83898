package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags holds flags that change how a manuscript is read and rendered.
type sourceFlags struct {
	extension string
	footnotes string
}

// outputFlags holds flags that change where and how chapters are written.
type outputFlags struct {
	dir        string
	pattern    string
	standalone bool
	language   string
}

// assetFlags holds standalone stylesheet and template flags.
type assetFlags struct {
	style     string // stylesheet name
	assetPath string // override asset directory
	noStyle   bool   // no stylesheet in standalone documents
}

// convertFlags holds all flags for the convert and watch commands.
type convertFlags struct {
	common  commonFlags
	workers int
	source  sourceFlags
	output  outputFlags
	assets  assetFlags

	// changed reports whether a flag was set on the command line, so that
	// boolean flags can override a config value of true with false.
	changed func(name string) bool
}

// treeFlags holds flags for the tree command.
type treeFlags struct {
	common commonFlags
	source sourceFlags
	color  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addSourceFlags adds manuscript flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.extension, "ext", "", "extension appended to include names (default .tex)")
	fs.StringVar(&f.footnotes, "footnotes", "", "footnote placement: chapter, inline")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory")
	fs.StringVar(&f.pattern, "pattern", "", "chapter file name pattern (default chapter-%03d.xhtml)")
	fs.BoolVar(&f.standalone, "standalone", false, "wrap chapters in XHTML documents")
	fs.StringVar(&f.language, "lang", "", "language of standalone documents (default en)")
}

// addAssetFlags adds asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name for standalone documents")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.noStyle, "no-style", false, "no stylesheet in standalone documents")
}

// newConvertFlagSet registers the convert, watch and config flags on a new
// FlagSet. Completion scripts are generated from the same registration.
func newConvertFlagSet(name string, f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVarP(&f.workers, "workers", "w", 0, "books converted in parallel (0 = auto)")
	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	addOutputFlags(fs, &f.output)
	addAssetFlags(fs, &f.assets)

	return fs
}

// newTreeFlagSet registers the tree flags on a new FlagSet.
func newTreeFlagSet(f *treeFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	addCommonFlags(fs, &f.common)
	addSourceFlags(fs, &f.source)
	fs.BoolVar(&f.color, "color", false, "force colored output")

	return fs
}

// parseConvertFlags parses convert or watch flags and returns positional args.
func parseConvertFlags(name string, args []string, usage func(io.Writer), stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(name, f)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.changed = fs.Changed

	return f, fs.Args(), nil
}

// parseTreeFlags parses tree command flags and returns positional args.
func parseTreeFlags(args []string, stderr io.Writer) (*treeFlags, []string, error) {
	f := &treeFlags{}
	fs := newTreeFlagSet(f)
	fs.Usage = func() { printTreeUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	return parseConvertFlags("config", args, printConfigUsage, stderr)
}

// usageError marks a flag parsing failure as a usage error. Help requests
// pass through so the caller can exit successfully.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

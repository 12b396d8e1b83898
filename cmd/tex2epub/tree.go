package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp"
	"github.com/mattn/go-isatty"

	tex2epub "github.com/alnah/go-tex2epub"
)

// runTree parses a book and pretty-prints its document tree.
func runTree(ctx context.Context, args []string, env *Environment) error {
	f, roots, err := parseTreeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	switch {
	case len(roots) == 0:
		return ErrNoInput
	case len(roots) > 1:
		return fmt.Errorf("%w: tree takes exactly one root file", ErrUsage)
	}

	cfg, err := loadSettings(&convertFlags{common: f.common, source: f.source})
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common.verbose, f.common.quiet)
	defer func() { _ = logger.Sync() }()

	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	book, err := conv.Parse(ctx, tex2epub.Input{Path: roots[0]})
	if err != nil {
		return &bookError{root: roots[0], extension: cfg.Source.Extension, err: err}
	}

	printTree(env.Stdout, book, f.color || isTerminal(env.Stdout))
	return nil
}

// printTree writes the source files and the tree of book to w.
func printTree(w io.Writer, book *tex2epub.Book, color bool) {
	pp.ColoringEnabled = color
	for _, file := range book.Files {
		fmt.Fprintf(w, "# %s\n", file)
	}
	_, _ = pp.Fprintln(w, book.AST)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Package tex2epub converts LaTeX-like manuscripts into per-chapter HTML
// for e-book packaging.
//
// # Quick Start
//
// Create a converter and convert the root file of a book:
//
//	conv, err := tex2epub.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, tex2epub.Input{Path: "book/main.tex"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ch := range result.Chapters {
//	    os.WriteFile(ch.FileName("chapter-%03d.xhtml"), []byte(ch.HTML), 0o644)
//	}
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Parsing of the root file and every \include'd or \input'ed file
//  2. Building a document tree: commands bound to their arguments, special
//     tokens and named symbols resolved, includes spliced in place
//  3. Rendering the tree into one HTML buffer per chapter, with implicit
//     paragraphs and footnotes
//  4. Optionally wrapping each buffer into a standalone XHTML document;
//     paragraph ids are then quoted XML names (p0, p1, ...)
//
// Packaging the chapters into an e-book archive is left to the caller.
//
// # Supported Markup
//
// \chapter, \section (and their starred forms), \footnote, \textit, \emph,
// the quotation and quote environments, \include and \input, comments,
// escaped characters, dashes, quotes, ~, $-$ and blank-line paragraphs.
// Preamble commands such as \documentclass or \usepackage are ignored.
// Anything else fails with ErrUnsupportedConstruct and the source location.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := tex2epub.NewConverter(
//	    tex2epub.WithFootnotes(tex2epub.FootnotesInline),
//	    tex2epub.WithExtension(".ltx"),
//	    tex2epub.WithLogger(logger),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, tex2epub.Input{
//	    Path:       "book/main.tex",
//	    Standalone: &tex2epub.Standalone{Language: "fr", Style: "default"},
//	})
//
// # Errors
//
// Failures carry a typed error matching one sentinel: ErrIO, ErrSyntax,
// ErrUnsupportedConstruct or ErrIncludeCycle. Use errors.As with *SyntaxError
// or *UnsupportedConstructError to get the file, line and column.
package tex2epub

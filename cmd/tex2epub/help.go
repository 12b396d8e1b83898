package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2epub <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert LaTeX manuscripts to chapter files")
	fmt.Fprintln(w, "  watch      Convert again whenever a source file changes")
	fmt.Fprintln(w, "  tree       Print the document tree of a manuscript")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'tex2epub help <command>' for details on a specific command.")
}

// printConversionFlags prints the flags shared by convert, watch and config.
func printConversionFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the root file)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --pattern <s>         Chapter file name, one integer verb (chapter-%03d.xhtml)")
	fmt.Fprintln(w, "      --ext <s>             Extension appended to include names (.tex)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --footnotes <mode>    Footnote placement: chapter, inline")
	fmt.Fprintln(w, "      --standalone          Wrap chapters in XHTML documents")
	fmt.Fprintln(w, "      --lang <tag>          Language of standalone documents (en)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name>        Stylesheet: default, plain, or a custom name")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/ and templates/ overrides")
	fmt.Fprintln(w, "      --no-style            No stylesheet in standalone documents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2epub convert <root.tex>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert LaTeX manuscripts into one HTML file per chapter.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  root.tex    Root source file of a book. With several books, each is")
	fmt.Fprintln(w, "              written to a subdirectory named after its root file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -w, --workers <n>         Books converted in parallel (0 = auto)")
	fmt.Fprintln(w)
	printConversionFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2epub watch <root.tex> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a manuscript, then convert it again whenever the root file or")
	fmt.Fprintln(w, "one of its includes changes. Stop with Ctrl+C.")
	fmt.Fprintln(w)
	printConversionFlags(w)
}

// printTreeUsage prints usage for the tree command.
func printTreeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2epub tree <root.tex> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parse a manuscript and its includes and print the document tree.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --ext <s>             Extension appended to include names (.tex)")
	fmt.Fprintln(w, "      --color               Force colored output")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tex2epub config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration a conversion would use, as YAML: defaults,")
	fmt.Fprintln(w, "then the config file, then command-line flags.")
	fmt.Fprintln(w)
	printConversionFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "tree":
		printTreeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: tex2epub version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: tex2epub help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}

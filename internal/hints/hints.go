// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	userDir := string(filepath.Separator) + "go-tex2epub" + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, userDir) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMissingInclude returns hints for an include that could not be read.
func ForMissingInclude(extension string) string {
	return format("include names are relative to the including file; " + extension + " is appended when missing")
}

// ForIncludeCycle returns a hint naming the include that closes the cycle.
func ForIncludeCycle(chain []string) string {
	if len(chain) < 2 {
		return ""
	}
	from := chain[len(chain)-2]
	to := chain[len(chain)-1]
	return format("remove the \\include of " + to + " from " + from)
}

// ForUnsupported returns hints listing what is supported for a kind of construct.
func ForUnsupported(kind string, supported []string) string {
	if len(supported) == 0 {
		return ""
	}
	return format("supported " + kind + "s: " + strings.Join(supported, ", "))
}

// ForSyntax returns hints for a grammar error, based on what was expected.
func ForSyntax(expected string) string {
	var hints []string
	switch {
	case strings.Contains(expected, `\end`):
		hints = append(hints, `every \begin{name} needs a matching \end{name}`)
	case strings.Contains(expected, "}"), strings.Contains(expected, "]"):
		hints = append(hints, "check for an unbalanced brace or bracket")
	case expected == "`{`":
		hints = append(hints, `\begin, \end and \include take their name in braces`)
	case strings.Contains(expected, "end of input"):
		hints = append(hints, "a closing brace has no matching opening brace")
	}
	if strings.Contains(expected, "escaped character") {
		hints = append(hints, `write \textbackslash for a literal backslash`)
	}
	return formatHints(hints)
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}

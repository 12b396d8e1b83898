// Package fileutil provides file and path utility functions for manuscript
// sources and rendered chapter files.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the source suffix appended to include names.
const DefaultExtension = ".tex"

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionNoDot         = errors.New("extension must start with a dot")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// ValidateExtension checks that a source extension is safe to append to
// include names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	if !strings.HasPrefix(extension, ".") {
		return fmt.Errorf("%w: %q", ErrExtensionNoDot, extension)
	}
	return nil
}

// HasExtension reports whether path ends with extension (case-insensitive).
func HasExtension(path, extension string) bool {
	return strings.EqualFold(filepath.Ext(path), extension)
}

// ResolveInclude returns the path of the file named by an include directive.
// The name is resolved relative to the directory of the including file, and
// the source extension is appended unless the name already carries it.
//
// Examples (extension ".tex"):
//   - ("book.tex", "intro") -> "intro.tex"
//   - ("parts/one.tex", "ch1") -> "parts/ch1.tex"
//   - ("parts/one.tex", "../common.tex") -> "common.tex"
//   - ("/abs/book.tex", "/other/x") -> "/other/x.tex"
func ResolveInclude(includingFile, name, extension string) string {
	name = strings.TrimSpace(name)
	if !HasExtension(name, extension) {
		name += extension
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(filepath.Dir(includingFile), name)
}

// CanonicalPath returns a stable key for path, used to detect a file being
// visited twice. Symlinks are resolved when the path exists, so a file
// reached through a linked directory has the key of its target. It falls
// back to the cleaned path when the absolute path cannot be determined.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ChapterFileName formats the output name of the chapter at index (0-based)
// with a pattern holding one integer verb, numbering from 1.
func ChapterFileName(pattern string, index int) string {
	return fmt.Sprintf(pattern, index+1)
}

// WriteFileAtomic writes content to a temporary file in the destination
// directory and renames it into place, so readers never see a partial file.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tex2epub-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Package pipeline implements the stages that run after rendering.
//
// The renderer produces HTML fragments. When chapters are written as
// standalone documents, each fragment goes through:
//   - stylesheet sanitization, so CSS cannot close its <style> element
//   - template wrapping into a complete XHTML document with title and language
//
// Templates and stylesheets come from internal/assets; this package only
// executes them.
package pipeline

// Package diag holds the shared Diagnostic shape (§6 "Execute API",
// §7 "Error Handling Design") used by the environment, evaluator, and
// executor so none of them need to import each other just to report one.
package diag

import (
	"fmt"

	"markdownlang/internal/mdl/source"
)

// Diagnostic is the warning/error record §6 describes: errors abort
// execution and are returned on the error channel; warnings are collected
// and returned alongside a successful execution's value.
type Diagnostic struct {
	Message  string
	Span     source.Span
	HasSpan  bool
	SourceID source.FileID
	Warning  bool
}

// Warningf builds a warning diagnostic with a formatted message.
func Warningf(id source.FileID, sp source.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Span: sp, HasSpan: true, SourceID: id, Warning: true}
}

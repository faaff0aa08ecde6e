package executor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"markdownlang/internal/interpreter/diag"
	"markdownlang/internal/mdl/parser"
)

func run(t *testing.T, src string, baseDir string) (string, []diag.Diagnostic, error) {
	t.Helper()
	prog, perrs := parser.Parse(src, 0)
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	var out bytes.Buffer
	var diags []diag.Diagnostic
	if baseDir == "" {
		baseDir = "."
	}
	ex := New(prog, &out, baseDir, &diags)
	_, err := ex.Run("Main", nil)
	return out.String(), diags, err
}

func TestS1Arithmetic(t *testing.T) {
	out, _, err := run(t, "# M\n1. **{2 + 3 * 4}**\n", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "14" {
		t.Errorf("got %q, want 14", out)
	}
}

func TestS2ConditionalAndAssignment(t *testing.T) {
	out, _, err := run(t, "# M\n1. x = 10 > 5 ? \"yes\" : \"no\"\n2. **{x}**\n", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "yes" {
		t.Errorf("got %q, want yes", out)
	}
}

func TestS3BlockInvocationWithArg(t *testing.T) {
	src := "# Main\n1. [5](#D)\n\n## D\n1. **{#0 * 2}**\n"
	out, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "10" {
		t.Errorf("got %q, want 10", out)
	}
}

func TestS4SingleFenceGroupNoConflict(t *testing.T) {
	src := "# M\n1. x = 1\n1. y = 2\n2. **{x + y}**\n"
	out, diags, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no warnings, got %v", diags)
	}
	if strings.TrimSpace(out) != "3" {
		t.Errorf("got %q, want 3", out)
	}
}

func TestS5EqualityDoesNotDemand(t *testing.T) {
	src := "# M\n1. x = false ? 42\n2. **{x == x}**\n"
	out, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "true" {
		t.Errorf("got %q, want true", out)
	}
}

func TestS6RecursiveFactorial(t *testing.T) {
	src := "# Main\n1. **{[5](#F)}**\n\n## F\n1. #0 <= 1 ? 1 : #0 * [#0 - 1](#F)\n"
	out, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "120" {
		t.Errorf("got %q, want 120", out)
	}
}

func TestS7MatchExpression(t *testing.T) {
	src := "# M\n1. x = match 4\n    - 1 | 2: \"low\"\n    - 3 | 4 | 5: \"mid\"\n    - otherwise: \"high\"\n2. **{x}**\n"
	out, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "mid" {
		t.Errorf("got %q, want mid", out)
	}
}

func TestS8SameFenceUBWarning(t *testing.T) {
	src := "# M\n1. x = 1\n1. **{x}**\n"
	_, diags, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 warning, got %d: %v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, "same fence") {
		t.Errorf("unexpected warning message: %q", diags[0].Message)
	}
}

func TestS9ImportCaching(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.md")
	lib := "# Add\n1. **{#0 + #1}**\n\n# Mul\n1. **{#0 * #1}**\n"
	if err := os.WriteFile(libPath, []byte(lib), 0o644); err != nil {
		t.Fatalf("writing lib.md: %v", err)
	}

	mainSrc := "# Main\n1. [3, 4](lib#Add)\n2. [5, 6](lib#Mul)\n"
	prog, perrs := parser.Parse(mainSrc, 0)
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	var out bytes.Buffer
	var diags []diag.Diagnostic
	ex := New(prog, &out, dir, &diags)
	if _, err := ex.Run("Main", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.TrimSpace(out.String())
	want := "7\n30"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(ex.importCache) != 1 {
		t.Errorf("expected import cache to hold exactly one entry, got %d", len(ex.importCache))
	}
}

func TestImportEscapingBaseDirIsRejected(t *testing.T) {
	dir := t.TempDir()
	mainSrc := "# Main\n1. [1](../outside#Block)\n"
	prog, perrs := parser.Parse(mainSrc, 0)
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	var out bytes.Buffer
	var diags []diag.Diagnostic
	ex := New(prog, &out, dir, &diags)
	_, err := ex.Run("Main", nil)
	if err == nil {
		t.Fatalf("expected an error for an escaping import path")
	}
}

func TestEvaluatedBlockInvocationResolvesLinkInChainlessBody(t *testing.T) {
	// Wrapper's body is a lone Link inline, so autoUnwrap yields a Document
	// rather than a String, and evaluating it (via the leading `!`) must
	// resolve the link's "#Leaf" destination to the Leaf block rather than
	// raising UndefinedBlock on the literal "#Leaf" string.
	src := "# Main\n1. **{![](#Wrapper)}**\n\n## Wrapper\n[leaf](#Leaf)\n\n## Leaf\n1. **{42}**\n"
	out, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "42") {
		t.Errorf("expected output to contain 42, got %q", out)
	}
}

func TestEvaluatedBlockInvocationResolvesImageInChainlessBody(t *testing.T) {
	src := "# Main\n1. **{![](#Wrapper)}**\n\n## Wrapper\n![leaf](#Leaf)\n\n## Leaf\n1. **{99}**\n"
	out, _, err := run(t, src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "99") {
		t.Errorf("expected output to contain 99, got %q", out)
	}
}

func TestCaseInsensitiveEntryDispatch(t *testing.T) {
	src := "# Main\n1. **{1 + 1}**\n"
	prog, perrs := parser.Parse(src, 0)
	if len(perrs) > 0 {
		t.Fatalf("unexpected parse errors: %v", perrs)
	}
	var out bytes.Buffer
	var diags []diag.Diagnostic
	ex := New(prog, &out, ".", &diags)
	if _, err := ex.Run("MAIN", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.String()) != "2" {
		t.Errorf("got %q, want 2", out.String())
	}
}

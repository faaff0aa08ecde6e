// Package executor implements C8: the block registry, case-insensitive
// entry dispatch, block/chain execution, and the import cache (§4.5).
package executor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"markdownlang/internal/interpreter/diag"
	"markdownlang/internal/interpreter/environment"
	"markdownlang/internal/interpreter/evaluator"
	"markdownlang/internal/interpreter/mdlerr"
	"markdownlang/internal/interpreter/runtimevalue"
	"markdownlang/internal/mdl/block"
	"markdownlang/internal/mdl/document"
	"markdownlang/internal/mdl/instruction"
	"markdownlang/internal/mdl/parser"
	"markdownlang/internal/mdl/source"
)

// ErrImportEscapesRoot's message is embedded in the detail text of the
// ImportNotImplemented error returned when a local import path
// canonicalizes outside the executor's base directory (the error itself is
// not wrapped, so errors.Is does not find it) — a safety property carried over from the reference
// implementation's import resolver, folded into the existing
// ImportNotImplemented error family rather than given its own taxonomy
// entry (§7).
var ErrImportEscapesRoot = errors.New("import path escapes module root")

type entry struct {
	block     *block.Block
	fileID    source.FileID
	parent    string
	hasParent bool
}

// fileRegistry is one parsed file's flat name→block map, built once per
// file and reused verbatim from the import cache on repeat references.
type fileRegistry struct {
	entries map[string]entry
	order   []string // first-seen insertion order, for case-insensitive fallback
}

func buildFileRegistry(prog *block.Program) *fileRegistry {
	reg := &fileRegistry{entries: map[string]entry{}}
	var walk func(b *block.Block, parent string, hasParent bool)
	walk = func(b *block.Block, parent string, hasParent bool) {
		if _, seen := reg.entries[b.Name]; !seen {
			reg.order = append(reg.order, b.Name)
		}
		// Last-write-wins on name collision (§4.5 "Name collisions").
		reg.entries[b.Name] = entry{block: b, fileID: prog.SourceID, parent: parent, hasParent: hasParent}
		for _, c := range b.Children {
			walk(c, b.Name, true)
		}
	}
	for _, top := range prog.Blocks {
		walk(top, "", false)
	}
	return reg
}

func (r *fileRegistry) lookup(name string) (entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, true
	}
	lower := strings.ToLower(name)
	for _, n := range r.order {
		if strings.ToLower(n) == lower {
			return r.entries[n], true
		}
	}
	return entry{}, false
}

func (r *fileRegistry) ancestors(e entry) []string {
	var out []string
	cur := e
	for cur.hasParent {
		out = append(out, cur.parent)
		next, ok := r.entries[cur.parent]
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// Executor wires the block registry, import cache, and a fresh Evaluator
// per frame into the evaluator.Invoker the evaluator calls back into for
// block invocations.
type Executor struct {
	writer      io.Writer
	baseDir     string
	diags       *[]diag.Diagnostic
	root        *fileRegistry
	rootFileID  source.FileID
	registries  map[source.FileID]*fileRegistry
	importCache map[string]source.FileID // canonical path -> fileID
	nextFileID  source.FileID
}

// New builds an Executor rooted at prog, writing to w and resolving local
// imports relative to baseDir. diags accumulates warnings across every
// frame executed through this Executor.
func New(prog *block.Program, w io.Writer, baseDir string, diags *[]diag.Diagnostic) *Executor {
	root := buildFileRegistry(prog)
	return &Executor{
		writer:      w,
		baseDir:     baseDir,
		diags:       diags,
		root:        root,
		rootFileID:  prog.SourceID,
		registries:  map[source.FileID]*fileRegistry{prog.SourceID: root},
		importCache: map[string]source.FileID{},
		nextFileID:  prog.SourceID + 1,
	}
}

// Run is the top-level §6 Execute API entry point: locate entryName
// case-insensitively in the root registry and execute it with args.
func (ex *Executor) Run(entryName string, args []runtimevalue.Value) (runtimevalue.Value, error) {
	if len(ex.root.entries) == 0 {
		return runtimevalue.Value{}, mdlerr.NewNoEntryPoint("")
	}
	e, ok := ex.root.lookup(entryName)
	if !ok {
		return runtimevalue.Value{}, mdlerr.NewNoEntryPoint(entryName)
	}
	return ex.invokeEntry(ex.root, e, args, false, 0)
}

// Invoke implements evaluator.Invoker: resolve ref to a block (possibly in
// another file via import), then recurse into execute_block (§4.5
// "invoke_block").
func (ex *Executor) Invoke(ref instruction.BlockReference, args []runtimevalue.Value, evaluateResult bool, depth int) (runtimevalue.Value, error) {
	if depth > evaluator.MaxDepth {
		return runtimevalue.Value{}, mdlerr.NewStackOverflow(depth)
	}

	var reg *fileRegistry
	var name string

	switch r := ref.(type) {
	case instruction.Local:
		reg, name = ex.root, r.Name
	case instruction.LocalImport:
		fileID, err := ex.resolveImport(r.Path)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		reg, name = ex.registries[fileID], r.Block
	case instruction.RemoteImport:
		return runtimevalue.Value{}, mdlerr.NewImportNotImplemented("remote imports are not supported: " + r.URL)
	default:
		return runtimevalue.Value{}, mdlerr.NewCustom(fmt.Sprintf("unhandled block reference %T", r))
	}

	e, ok := reg.lookup(name)
	if !ok {
		return runtimevalue.Value{}, mdlerr.NewUndefinedBlock(name)
	}
	return ex.invokeEntry(reg, e, args, evaluateResult, depth)
}

func (ex *Executor) invokeEntry(reg *fileRegistry, e entry, args []runtimevalue.Value, evaluateResult bool, depth int) (runtimevalue.Value, error) {
	v, err := ex.executeBlock(reg, e, args, depth)
	if err != nil {
		return runtimevalue.Value{}, err
	}
	if evaluateResult && v.Kind == runtimevalue.KindDocument {
		return ex.evaluateDocument(v.Document, depth)
	}
	return v, nil
}

// executeBlock implements §4.5's execute_block.
func (ex *Executor) executeBlock(reg *fileRegistry, e entry, args []runtimevalue.Value, depth int) (runtimevalue.Value, error) {
	b := e.block
	if len(b.Chain.Groups) == 0 {
		return autoUnwrap(b.Body), nil
	}

	env := environment.New(e.fileID)
	env.PushScope(b.Name, b.Chain.AssignedNames(), args, reg.ancestors(e))
	defer env.PopScope()

	invoker := ex
	ev := evaluator.New(env, invoker, ex.writer, e.fileID, ex.diags)

	var last runtimevalue.Value
	for _, group := range b.Chain.Groups {
		env.PushFence()
		for _, ins := range group.Instructions {
			v, err := ex.executeInstruction(ev, env, ins, depth)
			if err != nil {
				env.PopFence()
				return runtimevalue.Value{}, err
			}
			last = v
		}
		*ex.diags = append(*ex.diags, env.PopFence()...)
	}
	return last, nil
}

func (ex *Executor) executeInstruction(ev *evaluator.Evaluator, env *environment.Environment, ins instruction.Instruction, depth int) (runtimevalue.Value, error) {
	idx := instructionIndex(ins)
	ev.SetInstrIndex(idx)
	switch n := ins.(type) {
	case instruction.Assignment:
		v, err := ev.Eval(n.Expr, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		env.Assign(n.Name, v)
		env.RecordWrite(n.Name, idx)
		return v, nil
	case instruction.ExpressionStmt:
		return ev.Eval(n.Expr, depth)
	default:
		return runtimevalue.Value{}, mdlerr.NewCustom(fmt.Sprintf("unhandled instruction %T", n))
	}
}

// instructionIndex derives the fence-local index a read/write is recorded
// under. All instructions sharing one FenceGroup only need a per-group
// unique identity to distinguish "different instruction" from "same
// instruction" (§4.3); the instruction's own span start is stable and
// unique within a group, so it serves that role directly.
func instructionIndex(ins instruction.Instruction) int {
	return ins.Span().Start
}

// autoUnwrap implements §4.5 step 1: a chain-less block's Body
// auto-unwraps a lone paragraph of text to a String, a lone table to a
// Table value, else returns the Document as-is.
func autoUnwrap(body document.Document) runtimevalue.Value {
	if text, ok := body.SingleParagraphText(); ok {
		return runtimevalue.String(text)
	}
	if tbl, ok := body.SingleTable(); ok {
		headers := make([]string, len(tbl.Header))
		for i, c := range tbl.Header {
			_, s, _ := document.CellNumberOrString(c)
			headers[i] = s
		}
		rows := make([][]runtimevalue.Value, len(tbl.Rows))
		for r, row := range tbl.Rows {
			cells := make([]runtimevalue.Value, len(row))
			for c, cell := range row {
				if n, _, ok := document.CellNumberOrString(cell); ok {
					cells[c] = runtimevalue.Number(n)
				} else {
					_, s, _ := document.CellNumberOrString(cell)
					cells[c] = runtimevalue.String(s)
				}
			}
			rows[r] = cells
		}
		return runtimevalue.TableValue(runtimevalue.Table{Headers: headers, Rows: rows})
	}
	return runtimevalue.Doc(body)
}

// evaluateDocument implements §4.6: walk the Document's blocks, evaluating
// Paragraph inlines per the fixed inline rules; the last inline's value is
// the Document's value.
func (ex *Executor) evaluateDocument(d document.Document, depth int) (runtimevalue.Value, error) {
	if len(d.Blocks) == 0 {
		return runtimevalue.Unit(), nil
	}
	var last runtimevalue.Value = runtimevalue.Unit()
	for _, b := range d.Blocks {
		p, ok := b.(document.Paragraph)
		if !ok {
			last = runtimevalue.Doc(document.Document{Blocks: []document.BlockNode{b}})
			continue
		}
		for _, in := range p.Inlines {
			v, err := ex.evaluateInline(in, depth)
			if err != nil {
				return runtimevalue.Value{}, err
			}
			last = v
		}
	}
	return last, nil
}

func (ex *Executor) evaluateInline(in document.InlineNode, depth int) (runtimevalue.Value, error) {
	switch n := in.(type) {
	case document.Text:
		return runtimevalue.String(n.Value), nil
	case document.Strong:
		ts := parser.TemplateFromInlines(n.Inlines)
		env := environment.New(ex.rootFileID)
		env.PushScope("", nil, nil, nil)
		defer env.PopScope()
		ev := evaluator.New(env, ex, ex.writer, ex.rootFileID, ex.diags)
		s, err := ev.RenderTemplate(ts, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		if _, err := fmt.Fprintln(ex.writer, s); err != nil {
			return runtimevalue.Value{}, mdlerr.NewIoError(err)
		}
		return runtimevalue.Unit(), nil
	case document.Strikethrough:
		inner, err := ex.evaluateDocument(document.Document{Blocks: []document.BlockNode{document.Paragraph{Inlines: n.Inlines}}}, depth)
		if err != nil {
			return runtimevalue.Value{}, err
		}
		return runtimevalue.StrikethroughEager(inner), nil
	case document.Link:
		return ex.Invoke(parser.ParseBlockRefString(n.Dest), nil, false, depth+1)
	case document.Image:
		return ex.Invoke(parser.ParseBlockRefString(n.Dest), nil, true, depth+1)
	default:
		return runtimevalue.Unit(), nil
	}
}

// resolveImport implements §4.5's import-cache lookup, canonicalizing the
// path and rejecting any path that resolves outside baseDir.
func (ex *Executor) resolveImport(path string) (source.FileID, error) {
	joined := path
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(ex.baseDir, joined)
	}
	if filepath.Ext(joined) == "" {
		joined += ".md"
	}
	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// The file may not exist yet for EvalSymlinks to resolve; fall
		// back to the lexically-cleaned absolute path so a genuinely
		// missing file still surfaces as an IoError from the read below,
		// not from this canonicalization step.
		canonical, err = filepath.Abs(joined)
		if err != nil {
			return 0, mdlerr.NewIoError(err)
		}
	}

	rootAbs, err := filepath.Abs(ex.baseDir)
	if err != nil {
		return 0, mdlerr.NewIoError(err)
	}
	rel, err := filepath.Rel(rootAbs, canonical)
	if err != nil || strings.HasPrefix(rel, "..") {
		return 0, mdlerr.NewImportNotImplemented(fmt.Sprintf("%v: %s", ErrImportEscapesRoot, path))
	}

	if fileID, ok := ex.importCache[canonical]; ok {
		return fileID, nil
	}

	src, err := os.ReadFile(canonical)
	if err != nil {
		return 0, mdlerr.NewIoError(err)
	}
	fileID := ex.nextFileID
	ex.nextFileID++
	prog, perrs := parser.Parse(string(src), fileID)
	if len(perrs) > 0 {
		return 0, mdlerr.NewCustom(fmt.Sprintf("import %q: %d parse error(s)", path, len(perrs)))
	}
	reg := buildFileRegistry(prog)
	ex.registries[fileID] = reg
	ex.importCache[canonical] = fileID
	return fileID, nil
}

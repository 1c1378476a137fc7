// Package extract implements the AST Extractor (spec.md §4.2): it parses a
// source buffer with a language grammar and emits a flat list of
// FunctionRecords plus the AstSubtree each one owns.
package extract

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/normalize"
	"github.com/oxhq/semdiff/internal/registry"
)

// MaxLeafBytes is the default text-retention ceiling of spec.md §3.
// Truncation below this ceiling is forbidden; it exists only to bound the
// pathological case of a single enormous string/blob literal.
const MaxLeafBytes = 1 << 20 // 1 MiB

// Result is the extractor's output for one file.
type Result struct {
	Functions []*core.FunctionRecord
	Warning   *core.ParseWarning // non-nil on the "zero matches" non-fatal case
}

// Extractor parses source buffers for one language, binding a tree-sitter
// grammar from the registry.
type Extractor struct {
	reg          *registry.Registry
	maxLeafBytes int
}

// New builds an Extractor bound to the given registry.
func New(reg *registry.Registry) *Extractor {
	return &Extractor{reg: reg, maxLeafBytes: MaxLeafBytes}
}

// Extract parses source bytes for lang. Malformed source yielding zero
// top-level function matches is not fatal (returns an empty list plus a
// warning); a grammar-level parse error is fatal and returned as an error
// for the caller to record against the file (spec.md §4.2).
func (e *Extractor) Extract(ctx context.Context, file string, lang core.Language, source []byte) (*Result, error) {
	cfg, ok := e.reg.Config(lang)
	if !ok {
		return nil, &core.CoreError{Code: core.ECUnsupportedLanguage, Message: fmt.Sprintf("no config for language %q", lang), Err: core.ErrUnsupportedLanguage, File: file}
	}
	grammar, ok := e.reg.Grammar(lang)
	if !ok {
		return nil, &core.CoreError{Code: core.ECUnsupportedLanguage, Message: fmt.Sprintf("no grammar for language %q", lang), Err: core.ErrUnsupportedLanguage, File: file}
	}

	// Each worker owns its own parser instance (spec.md §5: grammar parsers
	// are non-shareable across threads).
	parser := sitter.NewParser()
	parser.SetLanguage(grammar())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &core.CoreError{Code: core.ECParseFailed, Message: err.Error(), Err: err, File: file}
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, &core.CoreError{Code: core.ECParseFailed, Message: "grammar produced no root node", File: file}
	}
	defer tree.Close()

	w := &walker{
		cfg:    cfg,
		source: source,
		file:   file,
		maxLeaf: e.maxLeafBytes,
	}
	w.walk(tree.RootNode(), nil)

	if len(w.functions) == 0 {
		return &Result{Functions: nil, Warning: &core.ParseWarning{
			File:    file,
			Message: "no function-like nodes matched for this language's configuration",
		}}, nil
	}
	return &Result{Functions: w.functions}, nil
}

// walker carries per-file extraction state.
type walker struct {
	cfg     core.LanguageConfig
	source  []byte
	file    string
	maxLeaf int

	nextID    int
	functions []*core.FunctionRecord
}

// classFrame tracks the enclosing class chain for qualified naming.
type classFrame struct {
	name   string
	parent *classFrame
}

func (c *classFrame) qualified() string {
	if c == nil {
		return ""
	}
	names := []string{}
	for f := c; f != nil; f = f.parent {
		if f.name != "" {
			names = append([]string{f.name}, names...)
		}
	}
	return strings.Join(names, ".")
}

func (w *walker) walk(node *sitter.Node, enclosing *classFrame) {
	if node == nil {
		return
	}

	kind := node.Type()

	if isIn(kind, w.cfg.ClassNodeTypes) {
		name := w.fieldText(node, w.cfg.NameField)
		enclosing = &classFrame{name: name, parent: enclosing}
	}

	if isIn(kind, w.cfg.FunctionNodeTypes) {
		w.emitFunction(node, enclosing)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i), enclosing)
	}
}

func isIn(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func (w *walker) fieldText(node *sitter.Node, field string) string {
	if field == "" || node == nil {
		return ""
	}
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	if ident := w.firstIdentifierLeaf(child); ident != "" {
		return ident
	}
	return string(w.source[child.StartByte():child.EndByte()])
}

// firstIdentifierLeaf descends into a field node (e.g. a C declarator chain
// wrapping pointers/arrays around the real name) to find the innermost
// identifier-shaped leaf, returning "" so the caller falls back to the raw
// field text (a plain identifier node has no children and is handled by
// the caller directly).
func (w *walker) firstIdentifierLeaf(node *sitter.Node) string {
	if node == nil || node.ChildCount() == 0 {
		return ""
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if strings.Contains(c.Type(), "identifier") && c.ChildCount() == 0 {
			return string(w.source[c.StartByte():c.EndByte()])
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if inner := w.firstIdentifierLeaf(node.Child(i)); inner != "" {
			return inner
		}
	}
	return ""
}

func (w *walker) emitFunction(node *sitter.Node, enclosing *classFrame) {
	body := string(w.source[node.StartByte():node.EndByte()])

	sig := normalize.Build(normalize.RawSignature{
		Name:       w.nameFor(node),
		ParamTypes: w.paramTypesFor(node),
		ReturnType: w.fieldText(node, w.cfg.ReturnField),
		Visibility: visibilityFor(w.nameFor(node), w.cfg.Language),
	})

	ast := w.buildSubtree(node)

	enclosingName := enclosing.qualified()
	if recv := node.ChildByFieldName("receiver"); enclosingName == "" && recv != nil && recv.NamedChildCount() > 0 {
		// A Go method is declared outside its type; the receiver's type
		// stands in for the enclosing class.
		enclosingName = w.fieldText(recv.NamedChild(0), "type")
	}

	rec := &core.FunctionRecord{
		ID:             w.nextID,
		Signature:      sig,
		AST:            ast,
		Body:           body,
		BodyHash:       core.ComputeBodyHash(body),
		Language:       w.cfg.Language,
		EnclosingClass: enclosingName,
		Span: core.SourceSpan{
			File:      w.file,
			StartLine: int(node.StartPoint().Row) + 1,
			EndLine:   int(node.EndPoint().Row) + 1,
			StartByte: int(node.StartByte()),
			EndByte:   int(node.EndByte()),
		},
	}
	w.nextID++
	w.functions = append(w.functions, rec)
}

func (w *walker) nameFor(node *sitter.Node) string {
	return w.fieldText(node, w.cfg.NameField)
}

func (w *walker) paramTypesFor(node *sitter.Node) []string {
	if w.cfg.ParamsField == "" {
		return nil
	}
	params := node.ChildByFieldName(w.cfg.ParamsField)
	if params == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		out = append(out, w.paramType(p))
	}
	return out
}

// paramType extracts a single parameter's type text. It prefers an explicit
// "type" field (Go, Java, PHP, TypeScript all expose one); failing that it
// falls back to splitting on ':' (Python/TS/Swift annotation style) or '='
// (default-value trailing text), and finally to the bare text with the
// leading identifier stripped.
func (w *walker) paramType(p *sitter.Node) string {
	if p == nil {
		return ""
	}
	if t := p.ChildByFieldName("type"); t != nil {
		return string(w.source[t.StartByte():t.EndByte()])
	}
	raw := string(w.source[p.StartByte():p.EndByte()])
	if idx := strings.Index(raw, ":"); idx >= 0 {
		rest := raw[idx+1:]
		if eq := strings.Index(rest, "="); eq >= 0 {
			rest = rest[:eq]
		}
		return strings.TrimSpace(rest)
	}
	fields := strings.Fields(raw)
	if len(fields) >= 2 {
		return strings.Join(fields[1:], " ")
	}
	return ""
}

// visibilityFor is a light heuristic: Go's exported-by-capitalization rule
// is the one unambiguous, grammar-free signal available across this
// language set; other languages carry visibility as a modifier keyword the
// extractor does not currently parse out, so they report "".
func visibilityFor(name string, lang core.Language) string {
	if lang != core.LangGo || name == "" {
		return ""
	}
	r := rune(name[0])
	if r >= 'A' && r <= 'Z' {
		return "public"
	}
	return "private"
}

// buildSubtree converts a tree-sitter node into an owned core.AstSubtree,
// excising comment leaves when the language config says not to include
// them. The raw Body text on FunctionRecord always keeps comments; only
// this stored tree is affected (spec.md §4.2 edge cases).
func (w *walker) buildSubtree(node *sitter.Node) *core.AstSubtree {
	kind := node.Type()

	if !w.cfg.IncludeComments && isIn(kind, w.cfg.CommentNodeTypes) {
		return nil
	}

	childCount := int(node.ChildCount())
	if childCount == 0 {
		text := string(w.source[node.StartByte():node.EndByte()])
		if len(text) > w.maxLeaf {
			// Retained verbatim up to the ceiling; truncation only ever
			// happens above it (spec.md §3 core contract).
			text = text[:w.maxLeaf]
		}
		return &core.AstSubtree{Kind: kind, Text: text, Size: 1}
	}

	children := make([]*core.AstSubtree, 0, childCount)
	size := 1
	var last *core.AstSubtree
	for i := 0; i < childCount; i++ {
		c := node.Child(i)
		if child := w.buildSubtree(c); child != nil {
			children = append(children, child)
			size += child.Size
			last = child
		}
		// Source text between this child and the next (whitespace, in
		// practice) is appended to the rightmost leaf built so far, so the
		// leaves concatenate back to the source text.
		if i+1 >= childCount || last == nil {
			continue
		}
		if start, end := c.EndByte(), node.Child(i+1).StartByte(); end > start {
			leaf := last
			for len(leaf.Children) > 0 {
				leaf = leaf.Children[len(leaf.Children)-1]
			}
			leaf.Text += string(w.source[start:end])
		}
	}
	return &core.AstSubtree{Kind: kind, Children: children, Size: size}
}

// Package core holds the language-agnostic data model shared by every
// component of the diff engine: languages, signatures, AST subtrees,
// function records, match results and the sealed comparison context.
//
// Nothing in this package touches a concrete parser or grammar; that
// binding lives in internal/registry and internal/extract.
package core

import "fmt"

// Language is a closed-set tag identifying a supported grammar.
type Language string

// Supported languages, per spec.md GLOSSARY ("closed set").
const (
	LangJava       Language = "java"
	LangPython     Language = "python"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangGo         Language = "go"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
	LangSwift      Language = "swift"
)

// LanguageConfig supplies the per-language node-type vocabulary the AST
// Extractor needs: which grammar node kinds denote functions and classes,
// which denote comments, and which named fields carry identifiers.
type LanguageConfig struct {
	Language Language

	// FunctionNodeTypes lists grammar node kinds emitted as FunctionRecords.
	FunctionNodeTypes []string

	// ClassNodeTypes lists grammar node kinds that establish an enclosing
	// qualified name for nested methods.
	ClassNodeTypes []string

	// CommentNodeTypes lists grammar node kinds stripped from the stored
	// AstSubtree when IncludeComments is false.
	CommentNodeTypes []string

	// NameField is the named child field holding a declaration's identifier.
	NameField string
	// ParamsField is the named child field holding the parameter list.
	ParamsField string
	// ReturnField is the named child field holding the return type, if any.
	ReturnField string
	// BodyField is the named child field holding the function body.
	BodyField string

	// IncludeComments controls whether comment leaves are excised from the
	// stored AstSubtree. The raw body text always keeps comments.
	IncludeComments bool
}

// SourceSpan locates a byte/line range inside one file.
// Byte offsets are zero-based; line numbers are one-based.
type SourceSpan struct {
	File      string
	StartLine int
	EndLine   int
	StartByte int
	EndByte   int
}

func (s SourceSpan) String() string {
	return fmt.Sprintf("%s:%d-%d", s.File, s.StartLine, s.EndLine)
}

// Signature is a canonical, comparison-ready function signature.
// Equality uses every field; similarity (internal/score) uses only
// Name and Params.
type Signature struct {
	Name       string
	Params     []string // normalized parameter types, in declaration order
	ReturnType string   // empty string means void / omitted
	Visibility string   // "public", "private", "protected", "" if not applicable
	IsStatic   bool
	IsAbstract bool
}

// Equal reports whether two signatures are identical in every field.
func (s Signature) Equal(o Signature) bool {
	if s.Name != o.Name || s.ReturnType != o.ReturnType ||
		s.Visibility != o.Visibility || s.IsStatic != o.IsStatic ||
		s.IsAbstract != o.IsAbstract || len(s.Params) != len(o.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

// AstSubtree is a recursive, owned node structure. Leaf text is retained
// verbatim up to a configurable byte ceiling (default 1 MiB) — truncating
// below that ceiling is forbidden, since it would corrupt both TED and the
// body-hash computation that depend on exact text.
type AstSubtree struct {
	Kind     string
	Text     string // only set on leaves
	Children []*AstSubtree
	// Size is the number of nodes in this subtree (including itself),
	// used by the TED size-ratio short-circuit (spec.md §4.4).
	Size int
}

// leafConcat returns the concatenation of every leaf's Text in left-to-right
// order, used by the extractor invariant check (spec.md §3).
func (t *AstSubtree) leafConcat() string {
	if t == nil {
		return ""
	}
	if len(t.Children) == 0 {
		return t.Text
	}
	out := ""
	for _, c := range t.Children {
		out += c.leafConcat()
	}
	return out
}

// LeafText exposes leafConcat for callers validating the extractor invariant.
func (t *AstSubtree) LeafText() string { return t.leafConcat() }

// FunctionRecord is one parsed function-like entity.
type FunctionRecord struct {
	ID              int // unique, dense within one parse
	Signature       Signature
	AST             *AstSubtree
	Body            string // UTF-8 source text of the function body
	BodyHash        uint64
	Span            SourceSpan
	Language        Language
	EnclosingClass  string // dot-separated qualified name, "" if free function
}

// ChangeType classifies the relationship between a source and target
// function (or the absence of one side).
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeDeleted   ChangeType = "deleted"
	ChangeModified  ChangeType = "modified"
	ChangeRenamed   ChangeType = "renamed"
	ChangeMoved     ChangeType = "moved"
	ChangeUnchanged ChangeType = "unchanged"
)

// MatchResult is the outcome of matching one function against the other
// tree: either a pairing (Matched), or a one-sided record (Added/Deleted).
type MatchResult struct {
	SourceID   int // -1 when Added
	TargetID   int // -1 when Deleted
	Similarity float64
	ChangeType ChangeType
}

// FunctionChange is a MatchResult enriched with the classifier's output
// and, optionally, the full function bodies for detail queries.
type FunctionChange struct {
	Name       string
	SourceSpan *SourceSpan // nil when Added
	TargetSpan *SourceSpan // nil when Deleted
	ChangeType ChangeType
	Magnitude  float64
	Similarity float64
	Summary    string

	SourceBody string
	TargetBody string

	sourceID int
	targetID int
}

// SourceID returns the originating FunctionRecord id, or -1 if this change
// has no source side (Added).
func (fc FunctionChange) SourceID() int { return fc.sourceID }

// TargetID returns the originating FunctionRecord id, or -1 if this change
// has no target side (Deleted).
func (fc FunctionChange) TargetID() int { return fc.targetID }

// WithIDs attaches the originating record ids; kept separate from the
// exported fields above because list_changed_functions responses omit them.
func (fc FunctionChange) WithIDs(sourceID, targetID int) FunctionChange {
	fc.sourceID = sourceID
	fc.targetID = targetID
	return fc
}

// ParseWarning records a non-fatal per-file issue surfaced on a sealed
// ComparisonContext (spec.md §4.2 failure semantics).
type ParseWarning struct {
	File    string
	Message string
}

// Stats are the cached aggregate counters computed once at classification
// time and served by get_comparison_summary / summary().
type Stats struct {
	Counts map[ChangeType]int
	Total  int
}

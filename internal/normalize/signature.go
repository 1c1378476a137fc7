// Package normalize implements the Signature Normalizer (spec.md §4.3): it
// turns the raw pieces the AST Extractor pulls out of grammar nodes into a
// canonical, comparison-ready core.Signature.
package normalize

import (
	"strings"

	"github.com/oxhq/semdiff/internal/core"
)

// RawSignature is what internal/extract hands to Build: field text taken
// straight from grammar nodes, with no cleanup applied yet.
type RawSignature struct {
	Name       string
	ParamTypes []string // one entry per parameter, parameter name already stripped
	ReturnType string
	Visibility string
	IsStatic   bool
	IsAbstract bool
}

// Build produces a canonical Signature from raw grammar text, per the rules
// of spec.md §4.3:
//   - whitespace inside type strings collapses to single spaces, trimmed
//   - array/pointer markers stay attached to the element type (collapseType
//     never strips leading '*' or trailing '[]')
//   - parameter names are assumed already stripped (internal/extract does
//     this, since only it has the grammar's name/type field split)
//   - the return type is "" when the grammar marks void or omits it
func Build(raw RawSignature) core.Signature {
	params := make([]string, len(raw.ParamTypes))
	for i, p := range raw.ParamTypes {
		params[i] = collapseType(p)
	}
	return core.Signature{
		Name:       strings.TrimSpace(raw.Name),
		Params:     params,
		ReturnType: collapseType(normalizeVoid(raw.ReturnType)),
		Visibility: strings.TrimSpace(raw.Visibility),
		IsStatic:   raw.IsStatic,
		IsAbstract: raw.IsAbstract,
	}
}

// normalizeVoid maps the handful of spellings grammars use for "no return
// value" to the empty string the spec requires.
func normalizeVoid(t string) string {
	switch strings.TrimSpace(t) {
	case "void", "Void", "()", "None", "nil", "Unit":
		return ""
	default:
		return t
	}
}

// collapseType collapses internal whitespace runs to a single space and
// trims the ends, leaving pointer/array/generic punctuation attached to the
// element type exactly as written.
func collapseType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(t))
	lastWasSpace := false
	for _, r := range t {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastWasSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

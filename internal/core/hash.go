package core

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NormalizeLineEndings collapses CRLF and lone CR into LF so body-hash
// equality depends only on content, not on the source file's line-ending
// convention (spec.md §3 FunctionRecord invariant).
func NormalizeLineEndings(s string) string {
	if !strings.ContainsAny(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ComputeBodyHash is the deterministic 64-bit function of a function body
// required by spec.md §3: equal hashes must imply byte-equal normalized
// bodies. xxhash is grounded on standardbeagle-lci's go.mod dependency.
func ComputeBodyHash(body string) uint64 {
	normalized := NormalizeLineEndings(body)
	return xxhash.Sum64String(normalized)
}

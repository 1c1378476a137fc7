// Package registry implements the Language Registry (spec.md §4.1): it maps
// a file suffix or content sample to one of the closed-set supported
// languages, and supplies the per-language node-type vocabulary the AST
// Extractor needs.
//
// Per spec.md §9's design note, new languages are added as data — a
// LanguageConfig value plus a grammar-binding function — never as a new
// abstract type, so the registry itself stays completely language-agnostic.
package registry

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/semdiff/internal/core"
)

// GrammarFunc returns the tree-sitter grammar for a language. Kept as a
// function rather than a stored *sitter.Language so construction happens
// lazily and each parser worker can build its own instance (spec.md §5:
// "Grammar parsers are non-shareable across threads").
type GrammarFunc func() *sitter.Language

// ContentMarker is a content-sniffing heuristic used when extension lookup
// is ambiguous or absent. Strength governs tie-breaking: strong markers beat
// medium which beat weak (spec.md §4.1).
type ContentMarker struct {
	Substring string
	Strength  MarkerStrength
	// AtStart requires the marker to appear within the first few bytes
	// (e.g. a shebang or an XML/PHP open tag), rather than anywhere in
	// the sample.
	AtStart bool
}

type MarkerStrength int

const (
	MarkerWeak MarkerStrength = iota
	MarkerMedium
	MarkerStrong
)

// languageEntry bundles everything the registry knows about one language.
type languageEntry struct {
	config  core.LanguageConfig
	grammar GrammarFunc
	markers []ContentMarker
}

// Registry is the thread-safe language lookup table. Read-only after
// construction in the common case, but registration is still guarded so
// tests can build ad hoc registries concurrently.
type Registry struct {
	mu         sync.RWMutex
	entries    map[core.Language]*languageEntry
	extensions map[string]core.Language // extension -> canonical language

	// order is a fixed precedence used to break remaining detect() ties
	// deterministically, per spec.md §4.1.
	order []core.Language
}

// NewRegistry creates an empty registry. Use NewDefaultRegistry for the
// closed set of ten supported languages.
func NewRegistry() *Registry {
	return &Registry{
		entries:    make(map[core.Language]*languageEntry),
		extensions: make(map[string]core.Language),
	}
}

// Register adds (or replaces) one language's config, grammar binding and
// extensions. The order of registration establishes the fixed tie-break
// order used by detect().
func (r *Registry) Register(cfg core.LanguageConfig, grammar GrammarFunc, extensions []string, markers []ContentMarker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[cfg.Language]; !exists {
		r.order = append(r.order, cfg.Language)
	}
	r.entries[cfg.Language] = &languageEntry{config: cfg, grammar: grammar, markers: markers}
	for _, ext := range extensions {
		r.extensions[normalizeExt(ext)] = cfg.Language
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}

// Config returns the LanguageConfig for a language tag.
func (r *Registry) Config(lang core.Language) (core.LanguageConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[lang]
	if !ok {
		return core.LanguageConfig{}, false
	}
	return e.config, true
}

// Grammar returns a fresh tree-sitter grammar handle for a language.
func (r *Registry) Grammar(lang core.Language) (GrammarFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[lang]
	if !ok {
		return nil, false
	}
	return e.grammar, true
}

// Languages lists every registered language, in registration order.
func (r *Registry) Languages() []core.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Language, len(r.order))
	copy(out, r.order)
	return out
}

// Detect identifies the language of one source file. It first consults the
// extension table; if the extension is unknown, it scans up to the first
// maxSniffBytes of sample for content markers and picks the language with
// the most strong markers, then the most medium, then the most weak ones,
// breaking remaining ties by the registry's fixed registration order
// (spec.md §4.1).
func (r *Registry) Detect(path string, sample []byte) (core.Language, bool) {
	ext := normalizeExt(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	if lang, ok := r.extensions[ext]; ok {
		return lang, true
	}

	return r.detectByContent(sample)
}

const maxSniffBytes = 4096

func (r *Registry) detectByContent(sample []byte) (core.Language, bool) {
	if len(sample) > maxSniffBytes {
		sample = sample[:maxSniffBytes]
	}
	text := string(sample)
	head := text
	if len(head) > 64 {
		head = head[:64]
	}

	type score struct {
		lang   core.Language
		strong int
		medium int
		weak   int
	}
	var scores []score

	for _, lang := range r.order {
		e := r.entries[lang]
		var s score
		s.lang = lang
		for _, m := range e.markers {
			haystack := text
			if m.AtStart {
				haystack = head
			}
			if strings.Contains(haystack, m.Substring) {
				switch m.Strength {
				case MarkerStrong:
					s.strong++
				case MarkerMedium:
					s.medium++
				default:
					s.weak++
				}
			}
		}
		if s.strong > 0 || s.medium > 0 || s.weak > 0 {
			scores = append(scores, s)
		}
	}

	if len(scores) == 0 {
		return "", false
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].strong != scores[j].strong {
			return scores[i].strong > scores[j].strong
		}
		if scores[i].medium != scores[j].medium {
			return scores[i].medium > scores[j].medium
		}
		if scores[i].weak != scores[j].weak {
			return scores[i].weak > scores[j].weak
		}
		return r.precedence(scores[i].lang) < r.precedence(scores[j].lang)
	})

	return scores[0].lang, true
}

func (r *Registry) precedence(lang core.Language) int {
	for i, l := range r.order {
		if l == lang {
			return i
		}
	}
	return len(r.order)
}

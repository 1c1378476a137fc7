// Package walkfs is the default directory-walking collaborator spec.md §1
// names as out of core scope but that compare_locations still needs to
// turn source_path/target_path into classified file lists. Adapted from
// termfx-morfx's core.FileWalker: a worker-pool parallel directory scan,
// doublestar include/exclude matching, content-based language detection
// for the handful of files an extension alone can't classify.
package walkfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/registry"
)

// FileResult is one discovered, language-classified source file.
type FileResult struct {
	Path     string
	Language core.Language
	Error    error
}

// Walker performs parallel directory traversal with include/ignore glob
// filtering and registry-backed language classification.
type Walker struct {
	reg     *registry.Registry
	workers int
}

// New builds a Walker bound to a language registry, sizing its worker pool
// the way the teacher does for I/O-bound work: 2x logical CPUs.
func New(reg *registry.Registry) *Walker {
	return &Walker{reg: reg, workers: runtime.NumCPU() * 2}
}

// Scope narrows one Walk call (spec.md §6 compare_locations parameters).
type Scope struct {
	Root            string
	IncludePatterns []string // file_patterns allow-list; empty means all
	IgnorePatterns  []string // ignore_patterns deny-list
}

// Walk discovers every file under scope.Root that survives the
// include/ignore glob filters, returning one FileResult per file. Files
// the registry cannot classify come back with an empty Language, and
// unreadable ones with Error set; Languages filters both out. It stops
// early on ctx cancellation.
func (w *Walker) Walk(ctx context.Context, scope Scope) ([]FileResult, error) {
	info, err := os.Stat(scope.Root)
	if err != nil {
		return nil, &core.CoreError{Code: core.ECPathNotFound, Message: err.Error(), Err: core.ErrPathNotFound, File: scope.Root}
	}
	if !info.IsDir() {
		return nil, &core.CoreError{Code: core.ECPathNotFound, Message: "not a directory", Err: core.ErrPathNotFound, File: scope.Root}
	}

	paths := make(chan string, 1000)
	results := make(chan FileResult, 1000)

	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go w.worker(ctx, paths, results, &wg)
	}

	go func() {
		defer close(paths)
		w.scan(ctx, scope.Root, scope, paths)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var out []FileResult
	for r := range results {
		out = append(out, r)
	}

	select {
	case <-ctx.Done():
		return nil, &core.CoreError{Code: core.ECTimeout, Message: "directory walk cancelled", Err: core.ErrTimeout, File: scope.Root}
	default:
	}

	return out, nil
}

func (w *Walker) worker(ctx context.Context, paths <-chan string, results chan<- FileResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			r := w.classify(path)
			select {
			case <-ctx.Done():
				return
			case results <- r:
			}
		}
	}
}

func (w *Walker) scan(ctx context.Context, dir string, scope Scope, paths chan<- string) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return // unreadable directory, skip (spec.md §7 Unreadable is per-file, not fatal to the walk)
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		full := filepath.Join(dir, entry.Name())

		if matchesAny(full, scope.IgnorePatterns) {
			continue
		}

		if entry.IsDir() {
			w.scan(ctx, full, scope, paths)
			continue
		}

		if len(scope.IncludePatterns) > 0 && !matchesAny(full, scope.IncludePatterns) {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case paths <- full:
		}
	}
}

func (w *Walker) classify(path string) FileResult {
	if lang, ok := w.reg.Detect(path, nil); ok {
		return FileResult{Path: path, Language: lang}
	}

	sample, err := readSample(path)
	if err != nil {
		return FileResult{Path: path, Error: &core.CoreError{Code: core.ECUnreadable, Message: err.Error(), Err: core.ErrUnreadable, File: path}}
	}
	lang, ok := w.reg.Detect(path, sample)
	if !ok {
		return FileResult{Path: path} // Language == "": caller filters these out
	}
	return FileResult{Path: path, Language: lang}
}

const sampleBytes = 4096

func readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, sampleBytes)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	return buf[:n], nil
}

// matchesAny mirrors the teacher's matchPattern: a direct doublestar match
// against the full path, falling back to a basename match for patterns
// without a path separator.
func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// OSReader reads file contents straight off disk, satisfying
// internal/dispatch.FileReader for production use.
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Languages lists every classified file result, erroring out entirely when
// the walk found nothing the registry recognized (spec.md §7 NoSupportedFiles).
func Languages(results []FileResult) ([]FileResult, error) {
	var out []FileResult
	for _, r := range results {
		if r.Error != nil || r.Language == "" {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, core.NewCoreError(core.ECNoSupportedFiles, core.ErrNoSupportedFiles, fmt.Sprintf("no supported files found among %d scanned", len(results)))
	}
	return out, nil
}

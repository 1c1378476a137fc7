package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/config"
	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/registry"
	"github.com/oxhq/semdiff/internal/store"
	"github.com/oxhq/semdiff/internal/walkfs"
)

// fakeLister and fakeReader let the pipeline be driven entirely in memory,
// without touching disk, by satisfying FileLister/FileReader directly.
type fakeLister struct {
	byRoot map[string][]walkfs.FileResult
}

func (f *fakeLister) Walk(ctx context.Context, scope walkfs.Scope) ([]walkfs.FileResult, error) {
	return f.byRoot[scope.Root], nil
}

type fakeReader struct {
	contents map[string][]byte
}

func (f *fakeReader) ReadFile(path string) ([]byte, error) {
	return f.contents[path], nil
}

func newTestDispatcher(source, target []walkfs.FileResult, contents map[string][]byte) *Dispatcher {
	reg := registry.NewDefaultRegistry()
	lister := &fakeLister{byRoot: map[string][]walkfs.FileResult{
		"/src": source,
		"/tgt": target,
	}}
	reader := &fakeReader{contents: contents}
	return New(config.Default(), reg, lister, reader, store.New(), nil)
}

func TestCompareLocations_EndToEndUnchangedAndModified(t *testing.T) {
	sourceSrc := []byte("package main\nfunc same() int { return 1 }\nfunc tweak() int { return 1 }\n")
	targetSrc := []byte("package main\nfunc same() int { return 1 }\nfunc tweak() int { return 1 + 2 }\n")

	d := newTestDispatcher(
		[]walkfs.FileResult{{Path: "/src/a.go", Language: core.LangGo}},
		[]walkfs.FileResult{{Path: "/tgt/a.go", Language: core.LangGo}},
		map[string][]byte{"/src/a.go": sourceSrc, "/tgt/a.go": targetSrc},
	)

	res, err := d.CompareLocations(context.Background(), CompareLocationsRequest{SourcePath: "/src", TargetPath: "/tgt"})
	require.NoError(t, err)
	require.NotEmpty(t, res.ComparisonID)

	summary, err := d.GetComparisonSummary(res.ComparisonID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Stats.Total)

	unchanged, err := d.GetFunctionDiff(GetFunctionDiffRequest{ComparisonID: res.ComparisonID, FunctionName: "same", IncludeContent: true})
	require.NoError(t, err)
	assert.Equal(t, core.ChangeUnchanged, unchanged.ChangeType)

	tweaked, err := d.GetFunctionDiff(GetFunctionDiffRequest{ComparisonID: res.ComparisonID, FunctionName: "tweak", IncludeContent: true})
	require.NoError(t, err)
	assert.Equal(t, core.ChangeModified, tweaked.ChangeType)
}

func TestCompareLocations_MissingPathsIsInvalidArgument(t *testing.T) {
	d := newTestDispatcher(nil, nil, nil)
	_, err := d.CompareLocations(context.Background(), CompareLocationsRequest{SourcePath: "", TargetPath: "/tgt"})
	require.Error(t, err)
	var coreErr *core.CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, core.ECInvalidArgument, coreErr.Code)
}

func TestListChangedFunctions_UnknownComparisonErrors(t *testing.T) {
	d := newTestDispatcher(nil, nil, nil)
	_, err := d.ListChangedFunctions(ListChangedFunctionsRequest{ComparisonID: "does-not-exist"})
	require.Error(t, err)
	var coreErr *core.CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, core.ECUnknownComparison, coreErr.Code)
}

func TestGetFunctionDiff_StripsBodyWhenContentExcluded(t *testing.T) {
	src := []byte("package main\nfunc f() int { return 1 }\n")
	d := newTestDispatcher(
		[]walkfs.FileResult{{Path: "/src/a.go", Language: core.LangGo}},
		[]walkfs.FileResult{{Path: "/tgt/a.go", Language: core.LangGo}},
		map[string][]byte{"/src/a.go": src, "/tgt/a.go": src},
	)
	res, err := d.CompareLocations(context.Background(), CompareLocationsRequest{SourcePath: "/src", TargetPath: "/tgt"})
	require.NoError(t, err)

	fc, err := d.GetFunctionDiff(GetFunctionDiffRequest{ComparisonID: res.ComparisonID, FunctionName: "f", IncludeContent: false})
	require.NoError(t, err)
	assert.Empty(t, fc.SourceBody)
	assert.Empty(t, fc.TargetBody)
}

func TestCompareLocations_AddedAndDeletedFunctions(t *testing.T) {
	sourceSrc := []byte("package main\nfunc onlySource() int { return 1 }\n")
	targetSrc := []byte("package main\nfunc onlyTarget() int { return 2 }\n")

	d := newTestDispatcher(
		[]walkfs.FileResult{{Path: "/src/a.go", Language: core.LangGo}},
		[]walkfs.FileResult{{Path: "/tgt/a.go", Language: core.LangGo}},
		map[string][]byte{"/src/a.go": sourceSrc, "/tgt/a.go": targetSrc},
	)
	res, err := d.CompareLocations(context.Background(), CompareLocationsRequest{SourcePath: "/src", TargetPath: "/tgt"})
	require.NoError(t, err)

	changes, err := d.ListChangedFunctions(ListChangedFunctionsRequest{ComparisonID: res.ComparisonID})
	require.NoError(t, err)
	require.Len(t, changes, 2)

	var types []core.ChangeType
	for _, c := range changes {
		types = append(types, c.ChangeType)
	}
	assert.Contains(t, types, core.ChangeAdded)
	assert.Contains(t, types, core.ChangeDeleted)
}

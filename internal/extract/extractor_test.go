package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/registry"
)

func TestExtract_GoFunctionsAndMethod(t *testing.T) {
	reg := registry.NewDefaultRegistry()
	e := New(reg)

	src := []byte(`package main

type Greeter struct{}

func (g Greeter) Hello(name string) string {
	return "hello " + name
}

func add(a int, b int) int {
	return a + b
}
`)

	res, err := e.Extract(context.Background(), "main.go", core.LangGo, src)
	require.NoError(t, err)
	require.Nil(t, res.Warning)
	require.Len(t, res.Functions, 2)

	var names []string
	for _, fn := range res.Functions {
		names = append(names, fn.Signature.Name)
	}
	assert.Contains(t, names, "Hello")
	assert.Contains(t, names, "add")

	for _, fn := range res.Functions {
		if fn.Signature.Name == "add" {
			assert.Equal(t, []string{"int", "int"}, fn.Signature.Params)
			assert.Equal(t, "int", fn.Signature.ReturnType)
			assert.Equal(t, "private", fn.Signature.Visibility)
		}
		if fn.Signature.Name == "Hello" {
			assert.Equal(t, "public", fn.Signature.Visibility)
			assert.Equal(t, "Greeter", fn.EnclosingClass)
		}
	}
}

func TestExtract_NoMatchingFunctionsIsWarningNotError(t *testing.T) {
	reg := registry.NewDefaultRegistry()
	e := New(reg)

	res, err := e.Extract(context.Background(), "empty.go", core.LangGo, []byte("package main\n"))
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	assert.Empty(t, res.Functions)
}

func TestExtract_UnsupportedLanguageErrors(t *testing.T) {
	reg := registry.NewRegistry() // empty, nothing registered
	e := New(reg)

	_, err := e.Extract(context.Background(), "f.go", core.LangGo, []byte("package main\n"))
	require.Error(t, err)
	var coreErr *core.CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, core.ECUnsupportedLanguage, coreErr.Code)
}

func TestExtract_BodyHashDeterministicAcrossIdenticalSource(t *testing.T) {
	reg := registry.NewDefaultRegistry()
	e := New(reg)
	src := []byte("package main\nfunc f() int { return 1 }\n")

	res1, err := e.Extract(context.Background(), "a.go", core.LangGo, src)
	require.NoError(t, err)
	res2, err := e.Extract(context.Background(), "b.go", core.LangGo, src)
	require.NoError(t, err)

	require.Len(t, res1.Functions, 1)
	require.Len(t, res2.Functions, 1)
	assert.Equal(t, res1.Functions[0].BodyHash, res2.Functions[0].BodyHash)
}

func TestExtract_LeafConcatInvariant(t *testing.T) {
	reg := registry.NewDefaultRegistry()
	e := New(reg)
	src := []byte("package main\nfunc f() int { return 1 }\n")

	res, err := e.Extract(context.Background(), "a.go", core.LangGo, src)
	require.NoError(t, err)
	require.Len(t, res.Functions, 1)

	fn := res.Functions[0]
	assert.Equal(t, fn.Body, fn.AST.LeafText())
}

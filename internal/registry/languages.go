package registry

import (
	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
	tscpp "github.com/smacker/go-tree-sitter/cpp"
	tsgo "github.com/smacker/go-tree-sitter/golang"
	tsjava "github.com/smacker/go-tree-sitter/java"
	tsjs "github.com/smacker/go-tree-sitter/javascript"
	tsphp "github.com/smacker/go-tree-sitter/php"
	tspy "github.com/smacker/go-tree-sitter/python"
	tsruby "github.com/smacker/go-tree-sitter/ruby"
	tsswift "github.com/smacker/go-tree-sitter/swift"
	tsts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/semdiff/internal/core"
)

// NewDefaultRegistry builds the registry with the full closed set of
// languages from spec.md's GLOSSARY. Node-type vocabularies for Go, Python,
// JavaScript, TypeScript and PHP are grounded on termfx-morfx's per-language
// providers/*/config.go alias maps; Java, C, C++, Ruby and Swift were not
// present in the retrieval pack, so their vocabularies are authored from
// the same tree-sitter grammar conventions, generalized the way the
// teacher's own configs are shaped. A wrong or missing field name never
// errors (spec.md §4.2: "absent fields become empty strings"), so an
// approximate vocabulary degrades gracefully rather than failing closed.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(core.LanguageConfig{
		Language:          core.LangGo,
		FunctionNodeTypes: []string{"function_declaration", "method_declaration"},
		ClassNodeTypes:    []string{"type_declaration"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		ReturnField:       "result",
		BodyField:         "body",
	}, func() *sitter.Language { return tsgo.GetLanguage() },
		[]string{".go"},
		[]ContentMarker{{Substring: "package main", Strength: MarkerStrong}, {Substring: "func ", Strength: MarkerMedium}})

	r.Register(core.LanguageConfig{
		Language:          core.LangPython,
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"class_definition"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		ReturnField:       "return_type",
		BodyField:         "body",
	}, func() *sitter.Language { return tspy.GetLanguage() },
		[]string{".py", ".pyw", ".pyi"},
		[]ContentMarker{{Substring: "#!/usr/bin/env python", Strength: MarkerStrong, AtStart: true}, {Substring: "def ", Strength: MarkerMedium}, {Substring: "import ", Strength: MarkerWeak}})

	r.Register(core.LanguageConfig{
		Language:          core.LangJavaScript,
		FunctionNodeTypes: []string{"function_declaration", "function_expression", "arrow_function", "method_definition"},
		ClassNodeTypes:    []string{"class_declaration", "class_expression"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		BodyField:         "body",
	}, func() *sitter.Language { return tsjs.GetLanguage() },
		[]string{".js", ".jsx", ".mjs", ".cjs"},
		[]ContentMarker{{Substring: "require(", Strength: MarkerMedium}, {Substring: "function", Strength: MarkerWeak}})

	r.Register(core.LanguageConfig{
		Language:          core.LangTypeScript,
		FunctionNodeTypes: []string{"function_declaration", "function_expression", "arrow_function", "method_definition", "method_signature"},
		ClassNodeTypes:    []string{"class_declaration", "class_expression", "interface_declaration"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		ReturnField:       "return_type",
		BodyField:         "body",
	}, func() *sitter.Language { return tsts.GetLanguage() },
		[]string{".ts", ".tsx"},
		[]ContentMarker{{Substring: "interface ", Strength: MarkerStrong}, {Substring: ": string", Strength: MarkerMedium}, {Substring: "function", Strength: MarkerWeak}})

	r.Register(core.LanguageConfig{
		Language:          core.LangJava,
		FunctionNodeTypes: []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes:    []string{"class_declaration", "interface_declaration", "enum_declaration"},
		CommentNodeTypes:  []string{"line_comment", "block_comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		ReturnField:       "type",
		BodyField:         "body",
	}, func() *sitter.Language { return tsjava.GetLanguage() },
		[]string{".java"},
		[]ContentMarker{{Substring: "public class ", Strength: MarkerStrong}, {Substring: "import java.", Strength: MarkerStrong}, {Substring: "package ", Strength: MarkerWeak}})

	r.Register(core.LanguageConfig{
		Language:          core.LangC,
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"struct_specifier"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "declarator",
		ParamsField:       "parameters",
		BodyField:         "body",
	}, func() *sitter.Language { return tsc.GetLanguage() },
		[]string{".c", ".h"},
		[]ContentMarker{{Substring: "#include <stdio.h>", Strength: MarkerStrong}, {Substring: "#include \"", Strength: MarkerMedium}, {Substring: "int main(", Strength: MarkerMedium}})

	r.Register(core.LanguageConfig{
		Language:          core.LangCPP,
		FunctionNodeTypes: []string{"function_definition"},
		ClassNodeTypes:    []string{"class_specifier", "struct_specifier", "namespace_definition"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "declarator",
		ParamsField:       "parameters",
		BodyField:         "body",
	}, func() *sitter.Language { return tscpp.GetLanguage() },
		[]string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		[]ContentMarker{{Substring: "#include <iostream>", Strength: MarkerStrong}, {Substring: "std::", Strength: MarkerStrong}, {Substring: "namespace ", Strength: MarkerMedium}, {Substring: "template<", Strength: MarkerMedium}})

	r.Register(core.LanguageConfig{
		Language:          core.LangRuby,
		FunctionNodeTypes: []string{"method", "singleton_method"},
		ClassNodeTypes:    []string{"class", "module"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		BodyField:         "body",
	}, func() *sitter.Language { return tsruby.GetLanguage() },
		[]string{".rb"},
		[]ContentMarker{{Substring: "#!/usr/bin/env ruby", Strength: MarkerStrong, AtStart: true}, {Substring: "require '", Strength: MarkerMedium}, {Substring: "def ", Strength: MarkerWeak}, {Substring: "end", Strength: MarkerWeak}})

	r.Register(core.LanguageConfig{
		Language:          core.LangPHP,
		FunctionNodeTypes: []string{"function_definition", "method_declaration"},
		ClassNodeTypes:    []string{"class_declaration", "interface_declaration", "trait_declaration"},
		CommentNodeTypes:  []string{"comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		ReturnField:       "return_type",
		BodyField:         "body",
	}, func() *sitter.Language { return tsphp.GetLanguage() },
		[]string{".php", ".phtml", ".php5"},
		[]ContentMarker{{Substring: "<?php", Strength: MarkerStrong, AtStart: true}, {Substring: "namespace ", Strength: MarkerWeak}})

	r.Register(core.LanguageConfig{
		Language:          core.LangSwift,
		FunctionNodeTypes: []string{"function_declaration"},
		ClassNodeTypes:    []string{"class_declaration"},
		CommentNodeTypes:  []string{"comment", "multiline_comment"},
		NameField:         "name",
		ParamsField:       "parameters",
		ReturnField:       "return_type",
		BodyField:         "body",
	}, func() *sitter.Language { return tsswift.GetLanguage() },
		[]string{".swift"},
		[]ContentMarker{{Substring: "import Foundation", Strength: MarkerStrong}, {Substring: "import UIKit", Strength: MarkerStrong}, {Substring: "func ", Strength: MarkerMedium}, {Substring: "var ", Strength: MarkerWeak}})

	return r
}

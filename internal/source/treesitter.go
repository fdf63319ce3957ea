package source

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Parser turns one source file into a Unit.
// Implementations: TreeSitterParser (production), test doubles.
type Parser interface {
	// Parse extracts declarations from a single source file. A file with
	// syntax errors still yields a Unit; only the broken declarations are
	// left out.
	Parse(ctx context.Context, path string, source []byte, lang Language) (*Unit, error)

	// Close releases parser resources (tree-sitter C memory).
	Close() error
}

// TreeSitterParser implements Parser using the tree-sitter TypeScript and TSX
// grammars. A new tree-sitter parser is created per Parse call, so Parse may
// be called from several goroutines at once.
type TreeSitterParser struct {
	languages map[Language]*tree_sitter.Language
}

// NewTreeSitterParser creates a TreeSitterParser with the TypeScript and TSX
// grammars registered.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{
		languages: map[Language]*tree_sitter.Language{
			LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			LangTSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		},
	}
}

// Parse extracts class, interface and alias declarations from source.
func (p *TreeSitterParser) Parse(_ context.Context, path string, source []byte, lang Language) (*Unit, error) {
	tsLang, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	unit := &Unit{
		Path:      path,
		Language:  lang,
		LOC:       countLOC(source),
		HasErrors: root.HasError(),
	}
	ext := &tsExtractor{source: source, unit: unit}
	ext.program(root)
	return unit, nil
}

// Close is a no-op because parsers are created per Parse call.
func (p *TreeSitterParser) Close() error {
	return nil
}

// LanguageForPath maps a file name to the grammar that parses it.
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	}
	return "", false
}

// countLOC counts the number of lines in source by counting newline bytes
// and adding one for the final line if the source is non-empty.
func countLOC(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	return bytes.Count(source, []byte{'\n'}) + 1
}

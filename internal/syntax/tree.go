package syntax

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language selects the grammar used to parse a file.
type Language uint8

const (
	// LanguageTSX parses JSX-bearing sources (.jsx, .tsx, .js and friends).
	LanguageTSX Language = iota
	// LanguageTypeScript parses plain .ts sources, where `<T>x` is a type assertion.
	LanguageTypeScript
)

func (l Language) String() string {
	switch l {
	case LanguageTSX:
		return "tsx"
	case LanguageTypeScript:
		return "typescript"
	}
	return "unknown"
}

// LanguageForPath picks the grammar from the file extension.
// It returns false for files the analyzer does not handle.
func LanguageForPath(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsx", ".tsx", ".js", ".mjs", ".cjs":
		return LanguageTSX, true
	case ".ts", ".mts", ".cts":
		if strings.HasSuffix(strings.ToLower(path), ".d.ts") {
			return 0, false
		}
		return LanguageTypeScript, true
	}
	return 0, false
}

// Tree is an immutable parsed source file. Nodes obtained from it are only
// valid until Close is called.
type Tree struct {
	Path   string
	Source []byte
	Lang   Language

	tree  *sitter.Tree
	lines []uint32
}

// Parse parses src with the grammar matching path.
func Parse(path string, src []byte) (*Tree, error) {
	lang, ok := LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return ParseLanguage(path, src, lang)
}

// ParseLanguage parses src with an explicit grammar.
func ParseLanguage(path string, src []byte, lang Language) (*Tree, error) {
	grammar := typescript.LanguageTSX()
	if lang == LanguageTypeScript {
		grammar = typescript.LanguageTypescript()
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(sitter.NewLanguage(grammar)); err != nil {
		return nil, fmt.Errorf("loading %s grammar: %w", lang, err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s: parser returned no tree", path)
	}
	return &Tree{Path: path, Source: src, Lang: lang, tree: tree, lines: LineStarts(src)}, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

func (t *Tree) Root() Node {
	return wrap(t.tree.RootNode(), t.Source)
}

// Walk visits every named node in pre-order, parents before children. Returning
// an error from fn stops the walk and returns that error.
func (t *Tree) Walk(fn func(Node) error) error {
	cursor := t.tree.Walk()
	defer cursor.Close()

	for {
		n := cursor.Node()
		if n.IsNamed() {
			if err := fn(wrap(n, t.Source)); err != nil {
				return err
			}
		}
		if cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return nil
			}
		}
	}
}

// Slice returns the source text covered by r.
func (t *Tree) Slice(r TextRange) string {
	if int(r.End) > len(t.Source) || r.Start > r.End {
		return ""
	}
	return string(t.Source[r.Start:r.End])
}

// Position converts a byte offset into a 1-based line and column.
func (t *Tree) Position(offset uint32) Position {
	return PositionIn(t.lines, offset)
}

// Position is a 1-based line and byte column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineStarts returns the byte offset of the first character of every line.
func LineStarts(src []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return starts
}

// PositionIn resolves offset against a table built by LineStarts.
func PositionIn(lines []uint32, offset uint32) Position {
	i := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return Position{Line: i + 1, Column: int(offset-lines[i]) + 1}
}

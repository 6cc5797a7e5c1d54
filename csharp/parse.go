// Package csharp is the front end: it parses C# with tree-sitter, lowers the
// concrete syntax tree into cs nodes and binds names and types into a
// semantic.Table.
package csharp

import (
	"errors"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	"go.uber.org/zap"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
)

// Parse parses C# source code and returns a tree-sitter tree
func Parse(source []byte) (*tree_sitter.Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_csharp.Language())); err != nil {
		return nil, fmt.Errorf("load C# grammar: %w", err)
	}
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, errors.New("parser returned no tree")
	}
	return tree, nil
}

// Unit is a parsed and bound source file.
type Unit struct {
	Syntax *cs.CompilationUnit
	Model  *semantic.Table
	// SyntaxErrors counts the error nodes tree-sitter recovered from.
	SyntaxErrors int
}

// Load parses, lowers and binds one file.
func Load(source []byte, log *zap.Logger) (*Unit, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tree, err := Parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	l := &lowerer{src: source, log: log}
	unit := l.unit(tree.RootNode())
	if l.syntaxErrors > 0 {
		log.Warn("source has syntax errors", zap.Int("count", l.syntaxErrors))
	}
	return &Unit{Syntax: unit, Model: Bind(unit), SyntaxErrors: l.syntaxErrors}, nil
}

// Lower converts a tree-sitter tree into a cs.CompilationUnit.
func Lower(tree *tree_sitter.Tree, source []byte, log *zap.Logger) *cs.CompilationUnit {
	if log == nil {
		log = zap.NewNop()
	}
	l := &lowerer{src: source, log: log}
	return l.unit(tree.RootNode())
}

// IterateChildren iterates over all children of a node and calls fn for each
func IterateChildren(node *tree_sitter.Node, fn func(child *tree_sitter.Node)) {
	cursor := node.Walk()
	defer cursor.Close()
	children := node.Children(cursor)
	for i := range children {
		fn(&children[i])
	}
}

func namedChildren(node *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	IterateChildren(node, func(child *tree_sitter.Node) {
		if child.IsNamed() && !isComment(child) {
			out = append(out, child)
		}
	})
	return out
}

func fieldChildren(node *tree_sitter.Node, name string) []*tree_sitter.Node {
	cursor := node.Walk()
	defer cursor.Close()
	children := node.ChildrenByFieldName(name, cursor)
	out := make([]*tree_sitter.Node, len(children))
	for i := range children {
		out[i] = &children[i]
	}
	return out
}

// firstNamed returns the first named non-comment child, or nil.
func firstNamed(node *tree_sitter.Node) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	children := namedChildren(node)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func childOfKind(node *tree_sitter.Node, kinds ...string) *tree_sitter.Node {
	var found *tree_sitter.Node
	IterateChildren(node, func(child *tree_sitter.Node) {
		if found != nil {
			return
		}
		for _, k := range kinds {
			if child.Kind() == k {
				found = child
				return
			}
		}
	})
	return found
}

// hasToken reports whether node has a direct child token with the given text.
func hasToken(node *tree_sitter.Node, token string) bool {
	found := false
	IterateChildren(node, func(child *tree_sitter.Node) {
		if !child.IsNamed() && child.Kind() == token {
			found = true
		}
	})
	return found
}

// afterToken returns the first named child following the given token.
func afterToken(node *tree_sitter.Node, token string) *tree_sitter.Node {
	seen := false
	var found *tree_sitter.Node
	IterateChildren(node, func(child *tree_sitter.Node) {
		switch {
		case found != nil:
		case !child.IsNamed() && child.Kind() == token:
			seen = true
		case seen && child.IsNamed() && !isComment(child):
			found = child
		}
	})
	return found
}

func isComment(node *tree_sitter.Node) bool {
	return node.Kind() == "comment"
}

func (l *lowerer) text(node *tree_sitter.Node) string {
	return node.Utf8Text(l.src)
}

func (l *lowerer) info(node *tree_sitter.Node) cs.NodeInfo {
	start, end := node.StartPosition(), node.EndPosition()
	return cs.NodeInfo{
		Span: cs.Span{
			StartLine: int(start.Row) + 1,
			StartCol:  int(start.Column) + 1,
			EndLine:   int(end.Row) + 1,
			EndCol:    int(end.Column) + 1,
		},
		Text: strings.TrimSpace(l.text(node)),
	}
}

// commentTrivia classifies a comment token and strips its delimiters.
func commentTrivia(text string) cs.Trivia {
	switch {
	case strings.HasPrefix(text, "///"):
		return cs.Trivia{Kind: cs.DocComment, Text: strings.TrimRight(text[3:], " \t\r")}
	case strings.HasPrefix(text, "//"):
		return cs.Trivia{Kind: cs.LineComment, Text: strings.TrimRight(text[2:], " \t\r")}
	default:
		body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
		return cs.Trivia{Kind: cs.BlockComment, Text: body}
	}
}

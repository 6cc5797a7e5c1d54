package cs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectVisitsInSourceOrder(t *testing.T) {
	method := &MethodDecl{
		Name:   "M",
		Params: []*Param{{Name: "x", Type: &TypeRef{Name: "int"}}},
		Body: &Block{Stmts: []Stmt{
			&ExprStmt{X: &Assign{Op: "=", Target: &Ident{Name: "y"}, Value: &Ident{Name: "x"}}},
			&ReturnStmt{},
		}},
	}

	var kinds []string
	Inspect(method, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []string{
		"method_declaration", "parameter", "type", "block", "expression_statement",
		"assignment_expression", "identifier", "identifier", "return_statement",
	}, kinds)
}

func TestInspectPrunes(t *testing.T) {
	stmt := &IfStmt{Cond: &Ident{Name: "c"}, Then: &Block{Stmts: []Stmt{&BreakStmt{}}}}
	count := 0
	Inspect(stmt, func(n Node) bool {
		count++
		_, isBlock := n.(*Block)
		return !isBlock
	})
	assert.Equal(t, 3, count)
}

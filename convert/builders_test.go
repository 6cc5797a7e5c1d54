package convert

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

func line(n int) cs.NodeInfo {
	return cs.NodeInfo{Span: cs.Span{StartLine: n, StartCol: 9, EndLine: n, EndCol: 30}}
}

func id(name string) *cs.Ident { return &cs.Ident{Name: name} }

func num(raw string) *cs.Literal { return &cs.Literal{LitKind: cs.IntLit, Raw: raw} }

func str(raw string) *cs.Literal { return &cs.Literal{LitKind: cs.StringLit, Raw: `"` + raw + `"`} }

func null() *cs.Literal { return &cs.Literal{LitKind: cs.NullLit, Raw: "null"} }

func typ(name string) *cs.TypeRef { return &cs.TypeRef{Name: name} }

func arrayOf(elem string, rank int) *cs.TypeRef {
	return &cs.TypeRef{Elem: typ(elem), Rank: rank}
}

func exprStmt(x cs.Expr) *cs.ExprStmt { return &cs.ExprStmt{X: x} }

func assign(target cs.Expr, op string, value cs.Expr) *cs.Assign {
	return &cs.Assign{Op: op, Target: target, Value: value}
}

func call(fun cs.Expr, args ...cs.Expr) *cs.Invocation {
	inv := &cs.Invocation{Fun: fun}
	for _, a := range args {
		inv.Args = append(inv.Args, &cs.Argument{Value: a})
	}
	return inv
}

func member(x cs.Expr, name string) *cs.MemberAccess { return &cs.MemberAccess{X: x, Name: name} }

func local(ty *cs.TypeRef, names ...string) *cs.LocalDecl {
	decl := &cs.VarDecl{Type: ty}
	for _, n := range names {
		decl.Declarators = append(decl.Declarators, &cs.Declarator{Name: n})
	}
	return &cs.LocalDecl{Decl: decl}
}

func block(stmts ...cs.Stmt) *cs.Block { return &cs.Block{Stmts: stmts} }

func voidMethod(name string, body ...cs.Stmt) *cs.MethodDecl {
	return &cs.MethodDecl{
		Modifiers:  cs.PUBLIC,
		ReturnType: typ("void"),
		Name:       name,
		Body:       block(body...),
	}
}

func class(name string, members ...cs.Member) *cs.TypeDecl {
	return &cs.TypeDecl{Keyword: cs.Class, Modifiers: cs.PUBLIC, Name: name, Members: members}
}

// topLevelContext is a context outside any type.
func topLevelContext(t *testing.T, model semantic.Model) *Context {
	return newContext(model, Options{Logger: zaptest.NewLogger(t), FilePath: "test.cs"})
}

// testContext is a context inside a class body.
func testContext(t *testing.T, model semantic.Model) *Context {
	ctx := topLevelContext(t, model)
	ctx.pushHelperFrame(vbsrc.ClassKeyword)
	return ctx
}

func renderMember(t *testing.T, ctx *Context, m cs.Member) string {
	t.Helper()
	out, err := ctx.convertMemberIsolated(m)
	require.NoError(t, err)
	require.Len(t, out, 1)
	return vbsrc.Render(out[0])
}

// renderStmts converts one statement inside a class context and renders the result.
func renderStmts(t *testing.T, ctx *Context, stmt cs.Stmt) []string {
	t.Helper()
	out, err := ctx.convertStatementIsolated(stmt)
	require.NoError(t, err)
	lines := make([]string, len(out))
	for i, s := range out {
		lines[i] = vbsrc.Render(s)
	}
	return lines
}

func renderExpr(t *testing.T, ctx *Context, e cs.Expr) string {
	t.Helper()
	x, hoisted, err := ctx.convertExpression(e)
	require.NoError(t, err)
	require.Empty(t, hoisted)
	return x.ToSource()
}

func convertUnit(t *testing.T, unit *cs.CompilationUnit, model semantic.Model) *Result {
	t.Helper()
	result, err := ConvertUnit(unit, model, Options{Logger: zaptest.NewLogger(t), FilePath: "test.cs"})
	require.NoError(t, err)
	return result
}

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heshanpadmasiri/csvb/cs"
	"github.com/heshanpadmasiri/csvb/semantic"
	"github.com/heshanpadmasiri/csvb/vbsrc"
)

func binary(left cs.Expr, op string, right cs.Expr) *cs.Binary {
	return &cs.Binary{Op: op, Left: left, Right: right}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		name string
		expr cs.Expr
		want string
	}{
		{"null equality", binary(id("a"), "==", null()), "a Is Nothing"},
		{"null inequality", binary(null(), "!=", id("a")), "Nothing IsNot a"},
		{"equality", binary(id("a"), "==", id("b")), "a = b"},
		{"inequality", binary(id("a"), "!=", id("b")), "a <> b"},
		{"short circuit", binary(id("a"), "&&", id("b")), "a AndAlso b"},
		{"short circuit or", binary(id("a"), "||", id("b")), "a OrElse b"},
		{"string concatenation", binary(str("x"), "+", id("t")), `"x" & t`},
		{"addition", binary(id("a"), "+", id("b")), "a + b"},
		{"modulo", binary(id("a"), "%", id("b")), "a Mod b"},
		{"bitwise xor", binary(id("a"), "^", id("b")), "a Xor b"},
		{"coalesce", binary(id("a"), "??", id("b")), "If(a, b)"},
		{"conditional", &cs.Conditional{Cond: id("c"), Then: id("a"), Else: id("b")}, "If(c, a, b)"},
		{"logical not", &cs.Unary{Op: "!", X: id("a")}, "Not a"},
		{"negation", &cs.Unary{Op: "-", X: id("a")}, "-a"},
		{"parenthesized", binary(&cs.Paren{X: binary(id("a"), "+", id("b"))}, "*", id("c")), "(a + b) * c"},
		{"this", member(&cs.This{}, "count"), "Me.count"},
		{"base", call(member(&cs.BaseRef{}, "Dispose")), "MyBase.Dispose()"},
		{"element access", &cs.ElementAccess{X: id("grid"), Indices: []cs.Expr{id("i"), id("j")}}, "grid(i, j)"},
		{"predefined type receiver", call(member(id("string"), "IsNullOrEmpty"), id("s")), "String.IsNullOrEmpty(s)"},
		{"keyword identifier", id("@class"), "[class]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, renderExpr(t, testContext(t, semantic.NewTable()), test.expr))
		})
	}
}

func TestNamedArguments(t *testing.T) {
	inv := &cs.Invocation{Fun: id("Open"), Args: []*cs.Argument{
		{Value: id("path")},
		{Name: "share", Value: &cs.Literal{LitKind: cs.BoolLit, Raw: "true"}},
	}}
	assert.Equal(t, "Open(path, share:=True)", renderExpr(t, testContext(t, nil), inv))
}

func TestObjectCreation(t *testing.T) {
	ctx := testContext(t, nil)
	plain := &cs.ObjectCreation{Type: typ("StringBuilder")}
	assert.Equal(t, "New StringBuilder()", renderExpr(t, ctx, plain))

	list := &cs.ObjectCreation{Type: &cs.TypeRef{Name: "List", Args: []*cs.TypeRef{typ("int")}}, Init: []cs.Expr{num("1"), num("2")}}
	assert.Equal(t, "New List(Of Integer) From {1, 2}", renderExpr(t, ctx, list))

	withMembers := &cs.ObjectCreation{Type: typ("Point"), Init: []cs.Expr{assign(id("X"), "=", num("1"))}}
	_, _, err := ctx.convertExpression(withMembers)
	require.Error(t, err)
	kind, _ := ErrorKindOf(err)
	assert.Equal(t, UnsupportedConstruct, kind)
}

func TestDivision(t *testing.T) {
	table := semantic.NewTable()
	a, b, d := id("a"), id("b"), id("d")
	table.SetType(a, semantic.Int)
	table.SetType(b, semantic.Long)
	table.SetType(d, semantic.Double)
	ctx := testContext(t, table)

	assert.Equal(t, `a \ b`, renderExpr(t, ctx, binary(a, "/", b)))
	assert.Equal(t, "d / a", renderExpr(t, ctx, binary(d, "/", a)))

	_, _, err := ctx.convertExpression(binary(id("x"), "/", id("y")))
	require.Error(t, err)
	kind, _ := ErrorKindOf(err)
	assert.Equal(t, IncompleteSemanticInformation, kind)
}

func TestCasts(t *testing.T) {
	table := semantic.NewTable()
	d, i, c, o := id("d"), id("i"), id("c"), id("o")
	table.SetType(d, semantic.Double)
	table.SetType(i, semantic.Int)
	table.SetType(c, semantic.Char)
	table.SetType(o, semantic.Object)

	tests := []struct {
		name string
		expr cs.Expr
		want string
	}{
		{"floating to integral truncates", &cs.Cast{Type: typ("int"), X: d}, "CInt(Math.Truncate(d))"},
		{"integral to char", &cs.Cast{Type: typ("char"), X: i}, "ChrW(i)"},
		{"char to integral", &cs.Cast{Type: typ("int"), X: c}, "CInt(AscW(c))"},
		{"widening", &cs.Cast{Type: typ("long"), X: i}, "CLng(i)"},
		{"unknown operand", &cs.Cast{Type: typ("double"), X: id("x")}, "CDbl(x)"},
		{"reference cast", &cs.Cast{Type: typ("Foo"), X: o}, "DirectCast(o, Foo)"},
		{"numeric to enum", &cs.Cast{Type: typ("Color"), X: i}, "CType(i, Color)"},
		{"as", &cs.TypeTest{Op: "as", X: o, Type: typ("Foo")}, "TryCast(o, Foo)"},
		{"is", &cs.TypeTest{Op: "is", X: o, Type: typ("Foo")}, "TypeOf o Is Foo"},
		{"typeof", &cs.TypeOf{Type: typ("Foo")}, "GetType(Foo)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, renderExpr(t, testContext(t, table), test.expr))
		})
	}
}

func TestIncrementAsValue(t *testing.T) {
	ctx := testContext(t, nil)

	postfix := call(id("Use"), &cs.Unary{Op: "++", X: id("x"), Postfix: true})
	assert.Equal(t, "Use(Math.Min(Interlocked.Increment(x), x - 1))", renderExpr(t, ctx, postfix))

	prefix := &cs.Unary{Op: "++", X: id("x")}
	assert.Equal(t, "Interlocked.Increment(x)", renderExpr(t, ctx, prefix))

	decrement := &cs.Unary{Op: "--", X: id("x"), Postfix: true}
	assert.Equal(t, "Math.Max(Interlocked.Decrement(x), x + 1)", renderExpr(t, ctx, decrement))

	imports := ctx.imports.Imports()
	require.Len(t, imports, 1)
	assert.Equal(t, "Imports System.Threading", imports[0].ToSource())
}

func TestInlineAssignmentUsesHelper(t *testing.T) {
	ctx := testContext(t, nil)

	assert.Equal(t, "Use(__InlineAssignHelper(a, b))", renderExpr(t, ctx, call(id("Use"), assign(id("a"), "=", id("b")))))
	assert.Equal(t, "__InlineAssignHelper(a, a + 2)", renderExpr(t, ctx, assign(id("a"), "+=", num("2"))))

	helpers := synthesizeHelpers(ctx.popHelperFrame())
	require.Len(t, helpers, 1)
	assert.Equal(t, `Private Shared Function __InlineAssignHelper(Of T)(ByRef target As T, value As T) As T
    target = value
    Return value
End Function`, vbsrc.Render(helpers[0]))
}

func TestHelperInModuleIsNotShared(t *testing.T) {
	ctx := topLevelContext(t, nil)
	ctx.pushHelperFrame(vbsrc.ModuleKeyword)
	renderExpr(t, ctx, assign(id("a"), "=", id("b")))

	helpers := synthesizeHelpers(ctx.popHelperFrame())
	require.Len(t, helpers, 1)
	assert.Equal(t, "Private Function __InlineAssignHelper(Of T)(ByRef target As T, value As T) As T",
		firstLine(vbsrc.Render(helpers[0])))
}

func TestNoHelperWithoutRequest(t *testing.T) {
	ctx := testContext(t, nil)
	renderExpr(t, ctx, binary(id("a"), "+", id("b")))
	assert.Empty(t, synthesizeHelpers(ctx.popHelperFrame()))
}

func TestThrowExpression(t *testing.T) {
	table := semantic.NewTable()
	throw := &cs.ThrowExpr{Value: &cs.ObjectCreation{
		Type: typ("ArgumentNullException"),
		Args: []*cs.Argument{{Value: str("name")}},
	}}
	table.SetType(throw, semantic.String)
	ctx := testContext(t, table)

	got := renderExpr(t, ctx, binary(id("name"), "??", throw))
	assert.Equal(t, `If(name, __Throw(Of String)(New ArgumentNullException("name")))`, got)

	helpers := synthesizeHelpers(ctx.popHelperFrame())
	require.Len(t, helpers, 1)
	assert.Equal(t, "Private Shared Function __Throw(Of T)(e As Exception) As T\n    Throw e\nEnd Function", vbsrc.Render(helpers[0]))
}

func TestHelperRequestFailures(t *testing.T) {
	untyped := &cs.ThrowExpr{Value: id("err")}
	_, _, err := testContext(t, semantic.NewTable()).convertExpression(untyped)
	require.Error(t, err)
	kind, _ := ErrorKindOf(err)
	assert.Equal(t, IncompleteSemanticInformation, kind)

	iface := topLevelContext(t, nil)
	iface.pushHelperFrame(vbsrc.InterfaceKeyword)
	_, _, err = iface.convertExpression(assign(id("a"), "=", id("b")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inside an interface")

	_, _, err = topLevelContext(t, nil).convertExpression(assign(id("a"), "=", id("b")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside a type")
}

func TestLambdas(t *testing.T) {
	table := semantic.NewTable()

	double := &cs.Lambda{Params: []*cs.Param{{Name: "x"}}, Body: binary(id("x"), "*", num("2"))}
	table.SetSignature(double, &semantic.Signature{Params: []*semantic.Type{semantic.Int}, Return: semantic.Int})

	procBlock := &cs.Lambda{Body: block(exprStmt(call(id("Work"))))}
	table.SetSignature(procBlock, &semantic.Signature{})

	procExpr := &cs.Lambda{Body: call(id("Work"))}
	table.SetSignature(procExpr, &semantic.Signature{Return: &semantic.Type{Name: "void"}})

	multi := &cs.Lambda{Params: []*cs.Param{{Name: "s", Type: typ("string")}}, Async: true, Body: block(
		exprStmt(call(id("Log"), id("s"))),
		&cs.ReturnStmt{Value: id("s")},
	)}
	table.SetSignature(multi, &semantic.Signature{Return: semantic.String})

	ctx := testContext(t, table)
	assert.Equal(t, "Function(x) x * 2", renderExpr(t, ctx, double))
	assert.Equal(t, "Sub()\n    Work()\nEnd Sub", renderExpr(t, ctx, procBlock))
	assert.Equal(t, "Sub()\n    Work()\nEnd Sub", renderExpr(t, ctx, procExpr))
	assert.Equal(t, "Async Function(s As String)\n    Log(s)\n    Return s\nEnd Function", renderExpr(t, ctx, multi))
}

func TestLambdaInsideLoopDoesNotSeeIt(t *testing.T) {
	table := semantic.NewTable()
	lambda := &cs.Lambda{Body: block(&cs.BreakStmt{})}
	table.SetSignature(lambda, &semantic.Signature{})
	ctx := testContext(t, table)
	ctx.pushLoop("While")

	out, _, err := ctx.convertExpression(lambda)
	require.NoError(t, err)
	got := out.(*vbsrc.LambdaExpr)
	require.Len(t, got.Statements, 1)
	assert.IsType(t, &vbsrc.EmptyStatement{}, got.Statements[0])
}

func TestLambdaNeedsSignature(t *testing.T) {
	lambda := &cs.Lambda{Body: id("x")}

	_, _, err := testContext(t, semantic.NewTable()).convertExpression(lambda)
	require.Error(t, err)
	kind, _ := ErrorKindOf(err)
	assert.Equal(t, IncompleteSemanticInformation, kind)

	_, _, err = testContext(t, nil).convertExpression(lambda)
	require.Error(t, err)
	kind, _ = ErrorKindOf(err)
	assert.Equal(t, IncompleteSemanticInformation, kind)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func TestIteratorLambdaUsesBlockForm(t *testing.T) {
	table := semantic.NewTable()
	gen := &cs.Lambda{Body: block(&cs.YieldStmt{Value: num("1")})}
	table.SetSignature(gen, &semantic.Signature{Return: &semantic.Type{Name: "IEnumerable", Args: []*semantic.Type{semantic.Int}}})

	square := &cs.Lambda{
		Params: []*cs.Param{{Name: "x", Type: typ("int")}},
		Body:   block(&cs.ReturnStmt{Value: binary(id("x"), "*", id("x"))}),
	}
	table.SetSignature(square, &semantic.Signature{Params: []*semantic.Type{semantic.Int}, Return: semantic.Int})

	ctx := testContext(t, table)
	assert.Equal(t, "Iterator Function()\n    Yield 1\nEnd Function", renderExpr(t, ctx, gen))
	assert.Equal(t, "Function(x As Integer) x * x", renderExpr(t, ctx, square))
}
